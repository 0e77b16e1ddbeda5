package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reasons used as the "reason" label of Metrics.Dropped.
const (
	dropBufferFull  = "buffer_full"
	dropBreakerOpen = "breaker_open"
	dropClosed      = "closed"
)

// Metrics tracks the audit publisher.
type Metrics struct {
	Emitted         prometheus.Counter
	Persisted       prometheus.Counter
	Dropped         *prometheus.CounterVec
	PersistFailures prometheus.Counter
	BreakerState    prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Emitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "gesclient_audit_logs_emitted_total",
			Help: "Audit logs handed to the publisher",
		}),
		Persisted: factory.NewCounter(prometheus.CounterOpts{
			Name: "gesclient_audit_logs_persisted_total",
			Help: "Audit logs written to the log store",
		}),
		Dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gesclient_audit_logs_dropped_total",
			Help: "Audit logs discarded without a store write, by reason",
		}, []string{"reason"}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "gesclient_audit_persist_failures_total",
			Help: "Audit log store writes that failed",
		}),
		BreakerState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gesclient_audit_circuit_breaker_state",
			Help: "Audit store circuit breaker state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) incEmitted() {
	if m != nil {
		m.Emitted.Inc()
	}
}

func (m *Metrics) incPersisted() {
	if m != nil {
		m.Persisted.Inc()
	}
}

func (m *Metrics) incDropped(reason string) {
	if m != nil {
		m.Dropped.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) incPersistFailures() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}

func (m *Metrics) setBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerState.Set(1)
	} else {
		m.BreakerState.Set(0)
	}
}
