package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mssola/useragent"

	"gesclient/pkg/requestcontext"
)

// AccessLog writes one structured line per request. Client errors log at
// warn, server errors at error.
func AccessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusRecorder(w)
			next.ServeHTTP(sw, r)

			ctx := r.Context()
			attrs := []any{
				"request_id", requestcontext.RequestID(ctx),
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"ip", requestcontext.ClientIP(ctx),
			}
			attrs = append(attrs, userAgentAttrs(requestcontext.UserAgent(ctx))...)

			switch {
			case sw.status >= http.StatusInternalServerError:
				logger.ErrorContext(ctx, "http request", attrs...)
			case sw.status >= http.StatusBadRequest:
				logger.WarnContext(ctx, "http request", attrs...)
			default:
				logger.InfoContext(ctx, "http request", attrs...)
			}
		})
	}
}

func userAgentAttrs(raw string) []any {
	if raw == "" {
		return nil
	}
	ua := useragent.New(raw)
	browser, version := ua.Browser()
	return []any{
		"browser", browser,
		"browser_version", version,
		"os", ua.OS(),
		"bot", ua.Bot(),
		"mobile", ua.Mobile(),
	}
}
