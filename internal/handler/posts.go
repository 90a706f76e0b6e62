package handler

import (
	"log/slog"
	"net/http"

	"podium/internal/domain"
	"podium/internal/domain/services"
	"podium/internal/httputil"
	"podium/internal/locale"
	"podium/internal/presenter"
)

var (
	showPostErrors = errorTable{
		{target: domain.ErrNotFound, key: "api.endpoint_errors.posts.post_not_found"},
	}
	createPostErrors = errorTable{
		{target: domain.ErrForbidden, key: "api.endpoint_errors.forbidden"},
		{target: domain.ErrValidation, key: "api.endpoint_errors.posts.failed_create"},
	}
	deletePostErrors = errorTable{
		{target: domain.ErrNotFound, key: "api.endpoint_errors.posts.post_not_found"},
		{target: domain.ErrForbidden, key: "api.endpoint_errors.posts.failed_delete"},
	}
)

// PostHandler handles status message HTTP requests
type PostHandler struct {
	*responder
	posts services.PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(posts services.PostService, catalog *locale.Catalog, logger *slog.Logger) *PostHandler {
	return &PostHandler{responder: newResponder(catalog, logger), posts: posts}
}

// Show returns a visible post
// GET /api/v1/posts/{post_id}
func (h *PostHandler) Show(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Find(r.Context(), callerOf(r), r.PathValue("post_id"))
	if err != nil {
		h.respondError(w, r, err, showPostErrors)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, presenter.Post(post))
}

// Create publishes a status message
// POST /api/v1/posts
// Private posts additionally need private:modify, otherwise 403
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreatePostRequest
	if err := decode(w, r, &req); err != nil {
		h.respondError(w, r, err, createPostErrors)
		return
	}

	post, err := h.posts.Create(r.Context(), callerOf(r), &req)
	if err != nil {
		h.respondError(w, r, err, createPostErrors)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, presenter.Post(post))
}

// Destroy deletes one of the caller's posts
// DELETE /api/v1/posts/{post_id}
func (h *PostHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.Destroy(r.Context(), callerOf(r), r.PathValue("post_id")); err != nil {
		h.respondError(w, r, err, deletePostErrors)
		return
	}

	httputil.RespondNoContent(w)
}
