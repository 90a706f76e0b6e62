package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"podium/internal/auth"
	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/domain/services"
	"podium/internal/httputil"
	"podium/internal/locale"
	"podium/internal/paging"
	"podium/internal/presenter"
)

var (
	streamErrors       = errorTable{}
	aspectStreamErrors = errorTable{
		{target: domain.ErrValidation, key: "api.endpoint_errors.streams.bad_aspects"},
	}
)

// streamFunc reads one page of a stream.
type streamFunc func(ctx context.Context, caller *auth.Caller, q paging.TimeQuery) ([]models.Post, error)

// StreamHandler handles stream HTTP requests. Streams are served newest first.
type StreamHandler struct {
	*responder
	streams services.StreamService
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(streams services.StreamService, catalog *locale.Catalog, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{responder: newResponder(catalog, logger), streams: streams}
}

// Main serves GET /api/v1/streams/main
func (h *StreamHandler) Main(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.streams.Main, streamErrors)
}

// Tags serves GET /api/v1/streams/tags
func (h *StreamHandler) Tags(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.streams.FollowedTags, streamErrors)
}

// Activity serves GET /api/v1/streams/activity
func (h *StreamHandler) Activity(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.streams.Activity, streamErrors)
}

// Commented serves GET /api/v1/streams/commented
func (h *StreamHandler) Commented(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.streams.Commented, streamErrors)
}

// Mentions serves GET /api/v1/streams/mentions
func (h *StreamHandler) Mentions(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.streams.Mentions, streamErrors)
}

// Liked serves GET /api/v1/streams/liked
func (h *StreamHandler) Liked(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.streams.Liked, streamErrors)
}

// Aspects serves GET /api/v1/streams/aspects?aspect_ids=[1,2]
// Without aspect_ids every aspect of the caller is included.
func (h *StreamHandler) Aspects(w http.ResponseWriter, r *http.Request) {
	ids, err := aspectIDs(r.URL.Query().Get("aspect_ids"))
	if err != nil {
		h.respondError(w, r, err, aspectStreamErrors)
		return
	}

	h.serve(w, r, func(ctx context.Context, caller *auth.Caller, q paging.TimeQuery) ([]models.Post, error) {
		return h.streams.Aspects(ctx, caller, ids, q)
	}, aspectStreamErrors)
}

// aspectIDs parses a JSON array of aspect ids.
func aspectIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("%w: aspect_ids: %v", domain.ErrValidation, err)
	}
	return ids, nil
}

func (h *StreamHandler) serve(w http.ResponseWriter, r *http.Request, read streamFunc, table errorTable) {
	pager, err := h.timePager(r, paging.FromNow)
	if err != nil {
		h.respondError(w, r, err, table)
		return
	}

	posts, err := read(r.Context(), callerOf(r), pager.Query())
	if err != nil {
		h.respondError(w, r, err, table)
		return
	}

	page := paging.TimePage(pager, posts, func(p models.Post) time.Time { return p.CreatedAt })
	httputil.RespondJSON(w, http.StatusOK, paging.Map(page, func(p models.Post) *presenter.PostResponse {
		return presenter.Post(&p)
	}))
}
