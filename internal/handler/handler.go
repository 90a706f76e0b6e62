// Package handler exposes the services over HTTP. Every handler reads the
// caller the gate stored on the request and answers failures with a single
// localized text/plain message.
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"podium/internal/auth"
	"podium/internal/domain"
	"podium/internal/httputil"
	"podium/internal/locale"
	"podium/internal/middleware"
	"podium/internal/paging"
)

const keyInvalidPagination = "api.endpoint_errors.invalid_pagination"

// errorRule maps failures matching target to a message key. A zero status
// keeps the status of the error's kind.
type errorRule struct {
	target error
	status int
	key    string
}

// errorTable lists the failures an action answers. Rules are tried in order,
// so named failures go before the kinds they wrap.
type errorTable []errorRule

// responder is shared by every handler.
type responder struct {
	catalog *locale.Catalog
	logger  *slog.Logger
	now     func() time.Time
}

func newResponder(catalog *locale.Catalog, logger *slog.Logger) *responder {
	return &responder{catalog: catalog, logger: logger, now: time.Now}
}

// respondError is the one place service errors become HTTP responses.
// Failures the table does not name are logged and answered with a 500.
func (h *responder) respondError(w http.ResponseWriter, r *http.Request, err error, table errorTable) {
	// Cursors are validated before any action runs
	if errors.Is(err, paging.ErrInvalidCursor) {
		h.message(w, r, http.StatusUnprocessableEntity, keyInvalidPagination)
		return
	}

	for _, rule := range table {
		if !errors.Is(err, rule.target) {
			continue
		}
		status := rule.status
		if status == 0 {
			status = domain.StatusCode(err)
		}
		h.logger.Debug("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
		h.message(w, r, status, rule.key)
		return
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		h.message(w, r, http.StatusUnauthorized, middleware.KeyUnauthenticated)
	case errors.Is(err, domain.ErrForbidden):
		h.message(w, r, http.StatusForbidden, middleware.KeyForbidden)
	default:
		h.logger.Error("unhandled error",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		h.message(w, r, http.StatusInternalServerError, middleware.KeyInternal)
	}
}

func (h *responder) message(w http.ResponseWriter, r *http.Request, status int, key string) {
	httputil.RespondMessage(w, status, h.catalog.Message(r.Header.Get("Accept-Language"), key))
}

// decode parses a JSON body. Malformed bodies are validation failures.
func decode(w http.ResponseWriter, r *http.Request, dest any) error {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// timePager reads the time cursor of r. def picks the page served without one.
func (h *responder) timePager(r *http.Request, def paging.Default) (*paging.TimePager, error) {
	return paging.NewTimePager(r.URL, paging.SortCreatedAt, def, h.now())
}

func callerOf(r *http.Request) *auth.Caller {
	return httputil.GetCaller(r)
}
