package httputil

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"gesclient/pkg/platform/middleware/metadata"
	"gesclient/pkg/requestcontext"
)

// maxCapturedBody bounds how much of a response body the hook keeps for the
// observer. Larger bodies are still sent in full; only the copy is dropped.
const maxCapturedBody = 256 << 10

// RequestInfo is what the finalization hook knows about the inbound request.
type RequestInfo struct {
	Method    string
	URL       string
	ClientIP  string
	RequestID string
	StartedAt time.Time
}

// ObservedResponse is what the handler chain sent back.
type ObservedResponse struct {
	StatusCode int
	// Payload is the decoded JSON object written by the handler, nil when the
	// body was empty, not JSON, not an object, or too large to capture.
	Payload  map[string]any
	Duration time.Duration
}

// ResponseObserver is notified exactly once per request after the handler
// chain has finished writing. Implementations must not block.
type ResponseObserver interface {
	ObserveResponse(ctx context.Context, req RequestInfo, resp ObservedResponse)
}

// Observe is the response-finalization hook. It wraps the ResponseWriter to
// record the status code and JSON body, and calls obs once the chain
// returns. A panic escaping the chain is rendered as a 500 envelope, reported
// to obs, then re-raised so an outer recoverer still sees it.
func Observe(obs ResponseObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := RequestInfo{
				Method:    r.Method,
				URL:       r.URL.RequestURI(),
				ClientIP:  requestcontext.ClientIP(r.Context()),
				RequestID: requestcontext.RequestID(r.Context()),
				StartedAt: time.Now(),
			}
			if info.ClientIP == "" {
				info.ClientIP = metadata.ClientIPFromRequest(r)
			}

			cw := &captureWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec != nil && rec != http.ErrAbortHandler && !cw.wroteHeader {
					WriteError(cw, errors.New("panic while serving request"))
				}
				obs.ObserveResponse(r.Context(), info, cw.observed(time.Since(info.StartedAt)))
				if rec != nil {
					panic(rec)
				}
			}()

			next.ServeHTTP(cw, r)
		})
	}
}

type captureWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
	overflow    bool
}

func (c *captureWriter) WriteHeader(code int) {
	if c.wroteHeader {
		return
	}
	c.status = code
	c.wroteHeader = true
	c.ResponseWriter.WriteHeader(code)
}

func (c *captureWriter) Write(b []byte) (int, error) {
	if !c.wroteHeader {
		c.WriteHeader(http.StatusOK)
	}
	if !c.overflow {
		if c.body.Len()+len(b) > maxCapturedBody {
			c.overflow = true
			c.body.Reset()
		} else {
			c.body.Write(b)
		}
	}
	return c.ResponseWriter.Write(b)
}

func (c *captureWriter) Flush() {
	if f, ok := c.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (c *captureWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := c.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("httputil: underlying ResponseWriter does not support hijacking")
	}
	return h.Hijack()
}

func (c *captureWriter) Unwrap() http.ResponseWriter {
	return c.ResponseWriter
}

func (c *captureWriter) observed(d time.Duration) ObservedResponse {
	status := c.status
	if !c.wroteHeader {
		status = http.StatusOK
	}
	resp := ObservedResponse{StatusCode: status, Duration: d}
	if c.overflow || c.body.Len() == 0 {
		return resp
	}
	var payload map[string]any
	if err := json.Unmarshal(c.body.Bytes(), &payload); err == nil {
		resp.Payload = payload
	}
	return resp
}
