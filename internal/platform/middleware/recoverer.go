package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"gesclient/pkg/platform/httputil"
	"gesclient/pkg/requestcontext"
)

// Recoverer turns a handler panic into a 500 envelope and logs the stack.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "panic while serving request",
					"request_id", requestcontext.RequestID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				httputil.WriteError(w, errors.New("panic while serving request"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
