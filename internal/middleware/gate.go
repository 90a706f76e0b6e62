package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"podium/internal/auth"
	"podium/internal/domain"
	"podium/internal/httputil"
	"podium/internal/locale"
)

// Message keys of the failures the middleware answers itself.
const (
	KeyUnauthenticated = "api.endpoint_errors.unauthenticated"
	KeyForbidden       = "api.endpoint_errors.forbidden"
	KeyInternal        = "api.endpoint_errors.internal"
)

// Authenticator resolves a raw access token to its caller.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*auth.Caller, error)
}

// Gate guards routes with a required scope set. It runs before the handler
// body: without a valid token the request fails with 401, with a token that
// lacks any required scope it fails with 403.
type Gate struct {
	authenticator Authenticator
	catalog       *locale.Catalog
	logger        *slog.Logger
}

// NewGate creates a gate.
func NewGate(authenticator Authenticator, catalog *locale.Catalog, logger *slog.Logger) *Gate {
	return &Gate{
		authenticator: authenticator,
		catalog:       catalog,
		logger:        logger,
	}
}

// Require wraps next so it only runs for callers holding every scope. The
// caller is stored on the request context for httputil.GetCaller.
func (g *Gate) Require(scopes ...auth.Scope) func(http.HandlerFunc) http.HandlerFunc {
	required := auth.NewScopeSet(scopes...)

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			caller, err := g.authenticator.Authenticate(r.Context(), TokenFromRequest(r))
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					g.logger.Debug("request not authenticated", "path", r.URL.Path, "error", err)
					g.reject(w, r, http.StatusUnauthorized, KeyUnauthenticated)
					return
				}
				g.logger.Error("authenticate request", "path", r.URL.Path, "error", err)
				g.reject(w, r, http.StatusInternalServerError, KeyInternal)
				return
			}

			if missing := caller.Scopes.Missing(required); missing != 0 {
				g.logger.Debug("insufficient scope",
					"path", r.URL.Path,
					"token_id", caller.TokenID,
					"missing", missing.String(),
				)
				g.reject(w, r, http.StatusForbidden, KeyForbidden)
				return
			}

			next(w, httputil.WithCaller(r, caller))
		}
	}
}

func (g *Gate) reject(w http.ResponseWriter, r *http.Request, status int, key string) {
	httputil.RespondMessage(w, status, g.catalog.Message(r.Header.Get("Accept-Language"), key))
}

// TokenFromRequest reads the access token from the Authorization header, or
// from the access_token query or form parameter.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if token := r.URL.Query().Get("access_token"); token != "" {
		return token
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		return r.PostFormValue("access_token")
	}
	return ""
}
