package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"podium/internal/domain"
	"podium/internal/domain/services"
	"podium/internal/httputil"
	"podium/internal/locale"
	"podium/internal/presenter"
)

var (
	listAspectsErrors = errorTable{}
	showAspectErrors  = errorTable{
		{target: domain.ErrNotFound, key: "api.endpoint_errors.aspects.not_found"},
	}
	createAspectErrors = errorTable{
		{target: domain.ErrValidation, key: "api.endpoint_errors.aspects.cant_create"},
	}
	updateAspectErrors = errorTable{
		{target: domain.ErrNotFound, key: "api.endpoint_errors.aspects.cant_update"},
		{target: domain.ErrValidation, key: "api.endpoint_errors.aspects.cant_update"},
	}
	deleteAspectErrors = errorTable{
		{target: domain.ErrNotFound, status: http.StatusUnprocessableEntity, key: "api.endpoint_errors.aspects.cant_delete"},
	}
)

// updateAspectBody is the PATCH payload. Absent fields are kept, explicit
// nulls are rejected.
type updateAspectBody struct {
	Name        httputil.Optional[string] `json:"name"`
	ChatEnabled httputil.Optional[bool]   `json:"chat_enabled"`
	Order       httputil.Optional[int]    `json:"order"`
}

func (b *updateAspectBody) toRequest() (*services.UpdateAspectRequest, error) {
	switch {
	case b.Name.IsNull():
		return nil, fmt.Errorf("%w: name cannot be null", domain.ErrValidation)
	case b.ChatEnabled.IsNull():
		return nil, fmt.Errorf("%w: chat_enabled cannot be null", domain.ErrValidation)
	case b.Order.IsNull():
		return nil, fmt.Errorf("%w: order cannot be null", domain.ErrValidation)
	}
	return &services.UpdateAspectRequest{
		Name:        b.Name.Value,
		ChatEnabled: b.ChatEnabled.Value,
		Order:       b.Order.Value,
	}, nil
}

// AspectHandler handles aspect HTTP requests
type AspectHandler struct {
	*responder
	aspects services.AspectService
}

// NewAspectHandler creates a new aspect handler
func NewAspectHandler(aspects services.AspectService, catalog *locale.Catalog, logger *slog.Logger) *AspectHandler {
	return &AspectHandler{responder: newResponder(catalog, logger), aspects: aspects}
}

// List returns the caller's aspects in order
// GET /api/v1/aspects
func (h *AspectHandler) List(w http.ResponseWriter, r *http.Request) {
	aspects, err := h.aspects.List(r.Context(), callerOf(r))
	if err != nil {
		h.respondError(w, r, err, listAspectsErrors)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{"data": presenter.AspectSummaries(aspects)})
}

// Show returns one aspect
// GET /api/v1/aspects/{id}
func (h *AspectHandler) Show(w http.ResponseWriter, r *http.Request) {
	aspect, err := h.aspects.Find(r.Context(), callerOf(r), r.PathValue("id"))
	if err != nil {
		h.respondError(w, r, err, showAspectErrors)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, presenter.Aspect(aspect))
}

// Create adds an aspect at the end of the caller's list
// POST /api/v1/aspects
func (h *AspectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateAspectRequest
	if err := decode(w, r, &req); err != nil {
		h.respondError(w, r, err, createAspectErrors)
		return
	}

	aspect, err := h.aspects.Create(r.Context(), callerOf(r), &req)
	if err != nil {
		h.respondError(w, r, err, createAspectErrors)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, presenter.Aspect(aspect))
}

// Update changes name, chat_enabled or position of an aspect
// PATCH /api/v1/aspects/{id}
func (h *AspectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body updateAspectBody
	if err := decode(w, r, &body); err != nil {
		h.respondError(w, r, err, updateAspectErrors)
		return
	}

	req, err := body.toRequest()
	if err != nil {
		h.respondError(w, r, err, updateAspectErrors)
		return
	}

	aspect, err := h.aspects.Update(r.Context(), callerOf(r), r.PathValue("id"), req)
	if err != nil {
		h.respondError(w, r, err, updateAspectErrors)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, presenter.Aspect(aspect))
}

// Destroy deletes an aspect
// DELETE /api/v1/aspects/{id}
func (h *AspectHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := h.aspects.Destroy(r.Context(), callerOf(r), r.PathValue("id")); err != nil {
		h.respondError(w, r, err, deleteAspectErrors)
		return
	}

	httputil.RespondNoContent(w)
}
