package audit

import (
	"context"
	"encoding/json"

	"gesclient/internal/auditlog/models"
)

func (p *Publisher) run() {
	defer close(p.done)
	for l := range p.queue {
		p.persist(l)
	}
}

func (p *Publisher) persist(l *models.Log) {
	if !p.breaker.allow() {
		p.metrics.incDropped(dropBreakerOpen)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
	defer cancel()

	if err := p.sink.Create(ctx, l); err != nil {
		p.metrics.incPersistFailures()
		if p.breaker.recordFailure() {
			p.metrics.setBreakerOpen(true)
			p.logger.Error("audit store unhealthy, circuit opened", "error", err)
		}
		p.logger.Warn("failed to persist audit log",
			"url", l.URL,
			"status_code", l.StatusCode,
			"error", err,
		)
		return
	}
	p.breaker.recordSuccess()
	p.metrics.setBreakerOpen(false)
	p.metrics.incPersisted()

	if p.mirror != nil {
		payload, err := json.Marshal(l)
		if err != nil {
			p.logger.Warn("failed to encode audit log for mirror", "error", err)
			return
		}
		p.mirror.Produce(context.Background(), l.ID.String(), payload)
	}
}
