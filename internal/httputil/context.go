package httputil

import (
	"context"
	"net/http"

	"podium/internal/auth"
)

// Context key type to avoid collisions
type contextKey string

const (
	callerKey contextKey = "caller"
)

// WithCaller adds the authenticated caller to the request context
func WithCaller(r *http.Request, caller *auth.Caller) *http.Request {
	ctx := context.WithValue(r.Context(), callerKey, caller)
	return r.WithContext(ctx)
}

// GetCaller retrieves the caller from context, returns nil if the request
// was not authenticated
func GetCaller(r *http.Request) *auth.Caller {
	caller, _ := r.Context().Value(callerKey).(*auth.Caller)
	return caller
}
