package audit

import (
	"context"
	"net/http"
	"strings"

	"gesclient/internal/auditlog/models"
	id "gesclient/pkg/domain"
	"gesclient/pkg/platform/httputil"
)

// Emitter accepts finished audit logs without blocking.
type Emitter interface {
	Emit(l *models.Log)
}

// Observer turns every finished response into an API_REQUEST log.
type Observer struct {
	emitter Emitter
	skip    map[string]struct{}
}

// NewObserver returns an observer emitting to e. Requests whose path is in
// skipPaths are not recorded.
func NewObserver(e Emitter, skipPaths ...string) *Observer {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return &Observer{emitter: e, skip: skip}
}

// ObserveResponse implements httputil.ResponseObserver.
func (o *Observer) ObserveResponse(_ context.Context, req httputil.RequestInfo, resp httputil.ObservedResponse) {
	path, _, _ := strings.Cut(req.URL, "?")
	if _, ok := o.skip[path]; ok {
		return
	}
	o.emitter.Emit(BuildLog(req, resp))
}

// BuildLog derives the log for one request. The message is the payload's
// message when it is a non-empty string, else the status text. Success is
// the payload's success flag when present, else status < 400.
func BuildLog(req httputil.RequestInfo, resp httputil.ObservedResponse) *models.Log {
	return &models.Log{
		ID:         id.NewID(),
		Action:     models.ActionAPIRequest,
		Message:    messageOf(resp),
		Success:    successOf(resp),
		IP:         req.ClientIP,
		UserID:     nil,
		URL:        req.URL,
		Method:     req.Method,
		StatusCode: resp.StatusCode,
		CreatedAt:  req.StartedAt,
	}
}

func messageOf(resp httputil.ObservedResponse) string {
	if msg, ok := resp.Payload["message"].(string); ok && msg != "" {
		return msg
	}
	return http.StatusText(resp.StatusCode)
}

func successOf(resp httputil.ObservedResponse) bool {
	if resp.Payload == nil {
		return resp.StatusCode < http.StatusBadRequest
	}
	success, ok := resp.Payload["success"].(bool)
	return ok && success
}
