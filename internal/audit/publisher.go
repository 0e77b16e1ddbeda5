// Package audit records one API_REQUEST log per HTTP request. The observer
// builds the log from the finished response and hands it to a Publisher,
// which persists it on a background worker so the response path never waits
// on the log store.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gesclient/internal/auditlog/models"
)

// Sink persists audit logs.
type Sink interface {
	Create(ctx context.Context, l *models.Log) error
}

// Mirror receives a copy of every persisted log. It must not block.
type Mirror interface {
	Produce(ctx context.Context, key string, value []byte)
}

// Publisher queues logs on a bounded buffer drained by a single worker.
// Emit never blocks: when the buffer is full the log is dropped. Failed
// writes are counted and logged, never retried.
type Publisher struct {
	sink         Sink
	mirror       Mirror
	logger       *slog.Logger
	metrics      *Metrics
	breaker      *circuitBreaker
	writeTimeout time.Duration
	bufferSize   int

	mu     sync.RWMutex
	closed bool
	queue  chan *models.Log
	done   chan struct{}
}

type Option func(*Publisher)

func WithBufferSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.bufferSize = n
		}
	}
}

// WithWriteTimeout bounds each store write. Writes run on a background
// context so a cancelled request never aborts its own audit log.
func WithWriteTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.writeTimeout = d
		}
	}
}

// WithCircuitBreaker opens the circuit after threshold consecutive store
// failures and drops logs for cooldown.
func WithCircuitBreaker(threshold int, cooldown time.Duration) Option {
	return func(p *Publisher) {
		p.breaker = newCircuitBreaker(threshold, cooldown)
	}
}

func WithMirror(m Mirror) Option {
	return func(p *Publisher) {
		p.mirror = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// NewPublisher starts the worker. Callers must Close the publisher on
// shutdown to drain buffered logs.
func NewPublisher(sink Sink, opts ...Option) *Publisher {
	p := &Publisher{
		sink:         sink,
		logger:       slog.Default(),
		writeTimeout: 5 * time.Second,
		bufferSize:   1024,
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.breaker == nil {
		p.breaker = newCircuitBreaker(0, 0)
	}
	p.queue = make(chan *models.Log, p.bufferSize)
	go p.run()
	return p
}

// Emit queues l for persistence and returns immediately.
func (p *Publisher) Emit(l *models.Log) {
	p.metrics.incEmitted()

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.metrics.incDropped(dropClosed)
		return
	}
	select {
	case p.queue <- l:
	default:
		p.metrics.incDropped(dropBufferFull)
		p.logger.Warn("audit buffer full, log dropped",
			"url", l.URL,
			"status_code", l.StatusCode,
		)
	}
}

// Close stops intake and waits for the worker to drain the buffer, or for
// ctx to end.
func (p *Publisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
