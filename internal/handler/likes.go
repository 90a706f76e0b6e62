package handler

import (
	"log/slog"
	"net/http"

	"podium/internal/domain"
	"podium/internal/domain/services"
	"podium/internal/httputil"
	"podium/internal/locale"
	"podium/internal/paging"
	"podium/internal/presenter"
)

var (
	listLikesErrors = errorTable{
		{target: domain.ErrNotFound, key: "api.endpoint_errors.posts.post_not_found"},
	}
	likeErrors = errorTable{
		{target: domain.ErrNotFound, key: "api.endpoint_errors.posts.post_not_found"},
		{target: domain.ErrLikeExists, key: "api.endpoint_errors.likes.like_exists"},
	}
	unlikeErrors = errorTable{
		{target: domain.ErrLikeNotFound, key: "api.endpoint_errors.likes.no_like"},
		{target: domain.ErrNotFound, key: "api.endpoint_errors.posts.post_not_found"},
	}
)

// LikeHandler handles like HTTP requests
type LikeHandler struct {
	*responder
	likes services.LikeService
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(likes services.LikeService, catalog *locale.Catalog, logger *slog.Logger) *LikeHandler {
	return &LikeHandler{responder: newResponder(catalog, logger), likes: likes}
}

// List returns a page of likes
// GET /api/v1/posts/{post_id}/likes
func (h *LikeHandler) List(w http.ResponseWriter, r *http.Request) {
	pager, err := paging.NewIndexPager(r.URL)
	if err != nil {
		h.respondError(w, r, err, listLikesErrors)
		return
	}

	likes, err := h.likes.ListForPost(r.Context(), callerOf(r), r.PathValue("post_id"), pager.Query())
	if err != nil {
		h.respondError(w, r, err, listLikesErrors)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, paging.Map(paging.IndexPage(pager, likes), presenter.Like))
}

// Create likes a post
// POST /api/v1/posts/{post_id}/likes
// Returns 422 when the caller already likes it
func (h *LikeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, err := h.likes.Like(r.Context(), callerOf(r), r.PathValue("post_id")); err != nil {
		h.respondError(w, r, err, likeErrors)
		return
	}

	httputil.RespondNoContent(w)
}

// Destroy removes the caller's like
// DELETE /api/v1/posts/{post_id}/likes
func (h *LikeHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := h.likes.Unlike(r.Context(), callerOf(r), r.PathValue("post_id")); err != nil {
		h.respondError(w, r, err, unlikeErrors)
		return
	}

	httputil.RespondNoContent(w)
}
