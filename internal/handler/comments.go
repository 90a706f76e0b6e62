package handler

import (
	"log/slog"
	"net/http"
	"time"

	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/domain/services"
	"podium/internal/httputil"
	"podium/internal/locale"
	"podium/internal/paging"
	"podium/internal/presenter"
)

var (
	listCommentsErrors = errorTable{
		{target: domain.ErrNotFound, key: "api.endpoint_errors.posts.post_not_found"},
	}
	createCommentErrors = errorTable{
		{target: domain.ErrNotFound, key: "api.endpoint_errors.posts.post_not_found"},
		{target: domain.ErrValidation, key: "api.endpoint_errors.comments.not_allowed"},
	}
	deleteCommentErrors = errorTable{
		{target: domain.ErrPostNotFound, key: "api.endpoint_errors.posts.post_not_found"},
		{target: domain.ErrNotFound, key: "api.endpoint_errors.comments.not_found"},
		{target: domain.ErrForbidden, key: "api.endpoint_errors.comments.no_delete"},
	}
	reportCommentErrors = errorTable{
		{target: domain.ErrNotFound, key: "api.endpoint_errors.comments.not_found"},
		{target: domain.ErrConflict, key: "api.endpoint_errors.comments.duplicate_report"},
		{target: domain.ErrValidation, key: "api.endpoint_errors.comments.no_reason"},
	}
)

// CommentHandler handles comment HTTP requests
type CommentHandler struct {
	*responder
	comments services.CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(comments services.CommentService, catalog *locale.Catalog, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{responder: newResponder(catalog, logger), comments: comments}
}

// List returns a page of comments, oldest first
// GET /api/v1/posts/{post_id}/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	pager, err := h.timePager(r, paging.FromEpoch)
	if err != nil {
		h.respondError(w, r, err, listCommentsErrors)
		return
	}

	comments, err := h.comments.ListForPost(r.Context(), callerOf(r), r.PathValue("post_id"), pager.Query())
	if err != nil {
		h.respondError(w, r, err, listCommentsErrors)
		return
	}

	page := paging.TimePage(pager, comments, func(c models.Comment) time.Time { return c.CreatedAt })
	httputil.RespondJSON(w, http.StatusOK, paging.Map(page, presenter.Comment))
}

// Create comments on a post
// POST /api/v1/posts/{post_id}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCommentRequest
	if err := decode(w, r, &req); err != nil {
		h.respondError(w, r, err, createCommentErrors)
		return
	}

	comment, err := h.comments.Create(r.Context(), callerOf(r), r.PathValue("post_id"), &req)
	if err != nil {
		h.respondError(w, r, err, createCommentErrors)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, presenter.Comment(*comment))
}

// Destroy deletes a comment
// DELETE /api/v1/posts/{post_id}/comments/{comment_id}
func (h *CommentHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	err := h.comments.Destroy(r.Context(), callerOf(r), r.PathValue("post_id"), r.PathValue("comment_id"))
	if err != nil {
		h.respondError(w, r, err, deleteCommentErrors)
		return
	}

	httputil.RespondNoContent(w)
}

// Report flags a comment for moderation
// POST /api/v1/posts/{post_id}/comments/{comment_id}/report
func (h *CommentHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req services.ReportRequest
	if err := decode(w, r, &req); err != nil {
		h.respondError(w, r, err, reportCommentErrors)
		return
	}

	err := h.comments.Report(r.Context(), callerOf(r), r.PathValue("post_id"), r.PathValue("comment_id"), &req)
	if err != nil {
		h.respondError(w, r, err, reportCommentErrors)
		return
	}

	httputil.RespondNoContent(w)
}
