// Package httpapi assembles the HTTP surface: middleware chain, operational
// endpoints and the /api resource routes.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gesclient/internal/platform/metrics"
	"gesclient/internal/platform/middleware"
	"gesclient/pkg/platform/httputil"
	"gesclient/pkg/platform/middleware/metadata"
	"gesclient/pkg/platform/middleware/requesttime"
)

// Paths excluded from request auditing.
const (
	HealthPath  = "/health"
	MetricsPath = "/metrics"
)

// Registrar mounts one resource's routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Config is the static part of the router.
type Config struct {
	Version     string
	CORSOrigins []string
}

// Deps are the collaborators the router wires in. Nil Observer, RateLimit,
// Metrics or MetricsHandler leave that concern out of the chain.
type Deps struct {
	Logger         *slog.Logger
	Health         HealthChecker
	Observer       httputil.ResponseObserver
	RateLimit      func(http.Handler) http.Handler
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	Handlers       []Registrar
}

const healthTimeout = 2 * time.Second

// NewRouter builds the application handler. Request id, request time and
// client metadata are attached before the audit hook so every audited log
// carries them; the recoverer sits inside the hook so panics are still
// observed as 500 responses.
func NewRouter(cfg Config, deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	if deps.Observer != nil {
		r.Use(httputil.Observe(deps.Observer))
	}
	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.Tracing)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(middleware.AccessLog(deps.Logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	if deps.RateLimit != nil {
		r.Use(deps.RateLimit)
	}

	r.NotFound(httputil.NotFound)
	r.MethodNotAllowed(httputil.MethodNotAllowed)

	r.Get("/", banner(cfg.Version))
	r.Get(HealthPath, health(deps.Health, deps.Logger))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, MetricsPath, deps.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		for _, h := range deps.Handlers {
			h.Register(api)
		}
	})

	return r
}

type bannerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

func banner(version string) http.HandlerFunc {
	body := bannerResponse{
		Success: true,
		Message: "API Gesclient - client management system",
		Version: version,
		Status:  "running",
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, body)
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func health(checker HealthChecker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker == nil {
			httputil.WriteSuccess(w, "ok", healthResponse{Status: "healthy", Database: "unknown"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := checker.Health(ctx); err != nil {
			logger.WarnContext(ctx, "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.Envelope{
				Success: false,
				Message: "database unreachable",
				Data:    healthResponse{Status: "unhealthy", Database: "down"},
			})
			return
		}
		httputil.WriteSuccess(w, "ok", healthResponse{Status: "healthy", Database: "up"})
	}
}
