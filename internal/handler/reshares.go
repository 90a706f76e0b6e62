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
	listResharesErrors = errorTable{
		{target: domain.ErrNotFound, key: "api.endpoint_errors.posts.post_not_found"},
	}
	// Every reshare failure reads the same to the client
	createReshareErrors = errorTable{
		{target: domain.ErrNotFound, status: http.StatusUnprocessableEntity, key: "reshares.create.error"},
		{target: domain.ErrValidation, key: "reshares.create.error"},
	}
)

// ReshareHandler handles reshare HTTP requests
type ReshareHandler struct {
	*responder
	reshares services.ReshareService
}

// NewReshareHandler creates a new reshare handler
func NewReshareHandler(reshares services.ReshareService, catalog *locale.Catalog, logger *slog.Logger) *ReshareHandler {
	return &ReshareHandler{responder: newResponder(catalog, logger), reshares: reshares}
}

// List returns a page of reshares of a post
// GET /api/v1/posts/{post_id}/reshares
func (h *ReshareHandler) List(w http.ResponseWriter, r *http.Request) {
	pager, err := paging.NewIndexPager(r.URL)
	if err != nil {
		h.respondError(w, r, err, listResharesErrors)
		return
	}

	reshares, err := h.reshares.ListForPost(r.Context(), callerOf(r), r.PathValue("post_id"), pager.Query())
	if err != nil {
		h.respondError(w, r, err, listResharesErrors)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, paging.Map(paging.IndexPage(pager, reshares), presenter.Reshare))
}

// Create reshares the root of a post
// POST /api/v1/posts/{post_id}/reshares
func (h *ReshareHandler) Create(w http.ResponseWriter, r *http.Request) {
	reshare, err := h.reshares.Create(r.Context(), callerOf(r), r.PathValue("post_id"))
	if err != nil {
		h.respondError(w, r, err, createReshareErrors)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, presenter.Post(reshare))
}
