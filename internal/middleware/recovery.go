package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"podium/internal/httputil"
	"podium/internal/locale"
)

// Recovery middleware recovers from panics and returns a localized 500
func Recovery(logger *slog.Logger, catalog *locale.Catalog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error("panic recovered",
						"error", err,
						"path", r.URL.Path,
						"method", r.Method,
						"stack", string(debug.Stack()),
					)

					httputil.RespondMessage(w, http.StatusInternalServerError,
						catalog.Message(r.Header.Get("Accept-Language"), KeyInternal))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
