// Package middleware enforces the per-IP request budget.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"gesclient/internal/ratelimit/metrics"
	"gesclient/internal/ratelimit/models"
	dErrors "gesclient/pkg/domain-errors"
	"gesclient/pkg/platform/httputil"
	"gesclient/pkg/platform/middleware/metadata"
	"gesclient/pkg/requestcontext"
)

// Limiter counts requests in a sliding window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)
}

type Middleware struct {
	primary  Limiter
	fallback Limiter
	breaker  *circuitBreaker
	limit    int
	window   time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithFallback sets the limiter used while the primary store is failing.
// Without one, requests pass unchecked during an outage.
func WithFallback(l Limiter) Option {
	return func(m *Middleware) {
		m.fallback = l
	}
}

// WithDisabled turns rate limiting off entirely.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

// New allows limit requests per client IP in any window.
func New(primary Limiter, limit int, window time.Duration, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		primary: primary,
		breaker: newCircuitBreaker(),
		limit:   limit,
		window:  window,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// Handler answers 429 once a client IP exceeds its budget.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		ip := requestcontext.ClientIP(ctx)
		if ip == "" {
			ip = metadata.ClientIPFromRequest(r)
		}

		result, degraded := m.check(ctx, models.IPKey(ip))
		if result == nil {
			next.ServeHTTP(w, r)
			return
		}
		if degraded {
			w.Header().Set("X-RateLimit-Status", "degraded")
		}
		addRateLimitHeaders(w, result)

		if !result.Allowed {
			m.metrics.IncrementRejected()
			m.logger.WarnContext(ctx, "rate limit exceeded",
				"request_id", requestcontext.RequestID(ctx),
				"ip", ip,
			)
			w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
			httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited,
				"too many requests from this IP, please try again later"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// check consults the primary store and falls back while it is failing. A
// nil result means no limiter could answer and the request is let through.
func (m *Middleware) check(ctx context.Context, key string) (*models.Result, bool) {
	result, err := m.primary.Allow(ctx, key, m.limit, m.window)
	if err == nil {
		closed := m.breaker.recordSuccess()
		m.metrics.SetBreakerOpen(!closed)
		if closed || m.fallback == nil {
			return result, false
		}
	} else {
		m.metrics.IncrementStoreErrors()
		m.logger.ErrorContext(ctx, "rate limit store failed", "error", err)
		m.metrics.SetBreakerOpen(m.breaker.recordFailure())
		if m.fallback == nil {
			return nil, false
		}
	}

	m.metrics.IncrementDegraded()
	result, err = m.fallback.Allow(ctx, key, m.limit, m.window)
	if err != nil {
		m.logger.ErrorContext(ctx, "fallback rate limiter failed", "error", err)
		return nil, true
	}
	return result, true
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
