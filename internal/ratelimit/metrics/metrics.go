package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Rejected     prometheus.Counter
	Degraded     prometheus.Counter
	StoreErrors  prometheus.Counter
	BreakerState prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Rejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "gesclient_ratelimit_rejected_total",
			Help: "Requests answered with 429",
		}),
		Degraded: factory.NewCounter(prometheus.CounterOpts{
			Name: "gesclient_ratelimit_degraded_checks_total",
			Help: "Checks served by the in-memory fallback limiter",
		}),
		StoreErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "gesclient_ratelimit_store_errors_total",
			Help: "Primary rate limit store failures",
		}),
		BreakerState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gesclient_ratelimit_circuit_breaker_state",
			Help: "Primary store circuit breaker state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) IncrementRejected() {
	if m != nil {
		m.Rejected.Inc()
	}
}

func (m *Metrics) IncrementDegraded() {
	if m != nil {
		m.Degraded.Inc()
	}
}

func (m *Metrics) IncrementStoreErrors() {
	if m != nil {
		m.StoreErrors.Inc()
	}
}

func (m *Metrics) SetBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerState.Set(1)
	} else {
		m.BreakerState.Set(0)
	}
}
