package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"podium/internal/domain"
	"podium/internal/domain/models"
	"podium/internal/domain/repositories"
	"podium/internal/domain/services"
	"podium/internal/httputil"
	"podium/internal/locale"
	"podium/internal/paging"
	"podium/internal/presenter"
)

var (
	listConversationsErrors = errorTable{}
	showConversationErrors  = errorTable{
		{target: domain.ErrNotFound, key: "api.endpoint_errors.conversations.not_found"},
	}
	createConversationErrors = errorTable{
		{target: domain.ErrValidation, key: "api.endpoint_errors.conversations.cant_process"},
		{target: domain.ErrNotFound, status: http.StatusUnprocessableEntity, key: "api.endpoint_errors.conversations.cant_process"},
	}
)

// ConversationHandler handles private conversation HTTP requests
type ConversationHandler struct {
	*responder
	conversations services.ConversationService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversations services.ConversationService, catalog *locale.Catalog, logger *slog.Logger) *ConversationHandler {
	return &ConversationHandler{responder: newResponder(catalog, logger), conversations: conversations}
}

// List returns a page of the caller's conversations, newest first
// GET /api/v1/conversations?only_after=<RFC3339>&only_unread=true
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := conversationFilter(r.URL.Query())
	if err != nil {
		h.respondError(w, r, err, listConversationsErrors)
		return
	}

	pager, err := h.timePager(r, paging.FromNow)
	if err != nil {
		h.respondError(w, r, err, listConversationsErrors)
		return
	}

	conversations, err := h.conversations.List(r.Context(), callerOf(r), filter, pager.Query())
	if err != nil {
		h.respondError(w, r, err, listConversationsErrors)
		return
	}

	page := paging.TimePage(pager, conversations, func(c models.Conversation) time.Time { return c.CreatedAt })
	httputil.RespondJSON(w, http.StatusOK, paging.Map(page, presenter.Conversation))
}

// conversationFilter reads the optional only_after and only_unread filters.
func conversationFilter(values url.Values) (repositories.ConversationFilter, error) {
	var filter repositories.ConversationFilter

	if raw := values.Get("only_after"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, fmt.Errorf("only_after %q: %w", raw, paging.ErrInvalidCursor)
		}
		filter.OnlyAfter = t.UTC()
	}

	if raw := values.Get("only_unread"); raw != "" {
		unread, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("only_unread %q: %w", raw, paging.ErrInvalidCursor)
		}
		filter.OnlyUnread = unread
	}

	return filter, nil
}

// Show returns one of the caller's conversations
// GET /api/v1/conversations/{id}
func (h *ConversationHandler) Show(w http.ResponseWriter, r *http.Request) {
	conversation, err := h.conversations.Find(r.Context(), callerOf(r), r.PathValue("id"))
	if err != nil {
		h.respondError(w, r, err, showConversationErrors)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, presenter.Conversation(*conversation))
}

// Create starts a conversation
// POST /api/v1/conversations
// Any rejected subject, body or recipient is a 422
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateConversationRequest
	if err := decode(w, r, &req); err != nil {
		h.respondError(w, r, err, createConversationErrors)
		return
	}

	conversation, err := h.conversations.Create(r.Context(), callerOf(r), &req)
	if err != nil {
		h.respondError(w, r, err, createConversationErrors)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, presenter.Conversation(*conversation))
}

// Destroy hides a conversation from the caller
// DELETE /api/v1/conversations/{id}
func (h *ConversationHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := h.conversations.Hide(r.Context(), callerOf(r), r.PathValue("id")); err != nil {
		h.respondError(w, r, err, showConversationErrors)
		return
	}

	httputil.RespondNoContent(w)
}
