package testutil

import (
	"net/http"
	"time"

	"gesclient/pkg/requestcontext"
)

// WithClientIP sets the client IP the metadata middleware would have set.
func WithClientIP(req *http.Request, ip string) *http.Request {
	ctx := requestcontext.WithClientMetadata(req.Context(), ip, req.Header.Get("User-Agent"))
	return req.WithContext(ctx)
}

// WithRequestTime pins the request-scoped clock.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
