package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gesclient/pkg/requestcontext"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []observation
}

type observation struct {
	req  RequestInfo
	resp ObservedResponse
}

func (o *recordingObserver) ObserveResponse(_ context.Context, req RequestInfo, resp ObservedResponse) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, observation{req: req, resp: resp})
}

func (o *recordingObserver) only(t *testing.T) observation {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.Len(t, o.calls, 1)
	return o.calls[0]
}

func TestObserve_CapturesEnvelope(t *testing.T) {
	obs := &recordingObserver{}
	h := Observe(obs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteCreated(w, "client created", map[string]string{"id": "x"})
	}))

	r := httptest.NewRequest(http.MethodPost, "/api/clients?dry=1", strings.NewReader(`{}`))
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	got := obs.only(t)
	assert.Equal(t, http.MethodPost, got.req.Method)
	assert.Equal(t, "/api/clients?dry=1", got.req.URL)
	assert.Equal(t, "203.0.113.7", got.req.ClientIP)
	assert.Equal(t, http.StatusCreated, got.resp.StatusCode)
	assert.Equal(t, true, got.resp.Payload["success"])
	assert.Equal(t, "client created", got.resp.Payload["message"])
	assert.Equal(t, http.StatusCreated, w.Code, "client response must be untouched")
}

func TestObserve_PrefersContextClientIP(t *testing.T) {
	obs := &recordingObserver{}
	h := Observe(obs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(requestcontext.WithClientMetadata(r.Context(), "198.51.100.1", ""))
	h.ServeHTTP(httptest.NewRecorder(), r)

	got := obs.only(t)
	assert.Equal(t, "198.51.100.1", got.req.ClientIP)
	assert.Equal(t, http.StatusNoContent, got.resp.StatusCode)
	assert.Nil(t, got.resp.Payload)
}

func TestObserve_NonJSONBody(t *testing.T) {
	obs := &recordingObserver{}
	h := Observe(obs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain text"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	got := obs.only(t)
	assert.Equal(t, http.StatusOK, got.resp.StatusCode)
	assert.Nil(t, got.resp.Payload)
}

func TestObserve_PanicRendersEnvelopeAndRepanics(t *testing.T) {
	obs := &recordingObserver{}
	h := Observe(obs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	assert.PanicsWithValue(t, "boom", func() {
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clients", nil))
	})

	got := obs.only(t)
	assert.Equal(t, http.StatusInternalServerError, got.resp.StatusCode)
	assert.Equal(t, false, got.resp.Payload["success"])
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestObserve_OversizedBodyNotCaptured(t *testing.T) {
	obs := &recordingObserver{}
	big := `{"success":true,"message":"` + strings.Repeat("a", maxCapturedBody) + `"}`
	h := Observe(obs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(big))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, len(big), w.Body.Len())
	assert.Nil(t, obs.only(t).resp.Payload)
}
