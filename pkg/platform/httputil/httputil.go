// Package httputil holds the JSON envelope, error translation and request
// decoding shared by every HTTP handler.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	dErrors "gesclient/pkg/domain-errors"
)

const maxBodyBytes = 1 << 20

var exposeInternalErrors atomic.Bool

// ExposeInternalErrors toggles whether 500 responses carry the underlying
// error text in the "error" field. Enabled only in development.
func ExposeInternalErrors(enabled bool) {
	exposeInternalErrors.Store(enabled)
}

// Envelope is the body shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a 200 envelope.
func WriteSuccess(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// WriteCreated writes a 201 envelope.
func WriteCreated(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// WriteError translates err into an envelope. Domain errors keep their
// message; anything else is reported as an internal error whose detail is
// withheld unless ExposeInternalErrors is on.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)

	if status == http.StatusInternalServerError {
		env := Envelope{Success: false, Message: "internal server error"}
		if exposeInternalErrors.Load() && err != nil {
			env.Error = err.Error()
		}
		WriteJSON(w, status, env)
		return
	}

	WriteJSON(w, status, Envelope{Success: false, Message: dErrors.MessageOf(err)})
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusNotFound, Envelope{Success: false, Message: "route not found"})
}

// MethodNotAllowed answers known routes hit with the wrong verb.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusMethodNotAllowed, Envelope{Success: false, Message: "method not allowed"})
}

// Validatable is implemented by request DTOs decoded with DecodeAndPrepare.
type Validatable interface {
	Validate() error
}

// Normalizable is optionally implemented by request DTOs; Normalize runs
// before Validate.
type Normalizable interface {
	Normalize()
}

// DecodeAndPrepare decodes the JSON body into a new T, normalizes and
// validates it. On failure it writes the error response, logs it, and
// returns ok=false; the caller must return immediately.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req := PT(new(T))

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(req); err != nil {
		msg := "invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, msg))
		return nil, false
	}

	if n, ok := any(req).(Normalizable); ok {
		n.Normalize()
	}

	if err := req.Validate(); err != nil {
		logger.WarnContext(ctx, "invalid request",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}

	return (*T)(req), true
}
