// Package kafka holds the franz-go producer used to mirror audit logs.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"gesclient/internal/platform/config"
)

// Producer writes keyed records to a single topic without waiting for acks.
type Producer struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewProducer connects to the configured brokers. It returns nil, nil when
// no brokers are configured.
func NewProducer(ctx context.Context, cfg config.KafkaConfig, logger *slog.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping kafka: %w", err)
	}
	return &Producer{client: client, topic: cfg.Topic, logger: logger}, nil
}

// EnsureTopic creates the topic with one partition if it does not exist.
func (p *Producer) EnsureTopic(ctx context.Context) error {
	adm := kadm.NewClient(p.client)
	_, err := adm.CreateTopic(ctx, 1, -1, nil, p.topic)
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	return nil
}

// Produce enqueues one record. Delivery failures are logged, never returned.
func (p *Producer) Produce(ctx context.Context, key string, value []byte) {
	record := &kgo.Record{Topic: p.topic, Key: []byte(key), Value: value}
	p.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("kafka produce failed",
				"topic", r.Topic,
				"key", string(r.Key),
				"error", err,
			)
		}
	})
}

// Close flushes buffered records, bounded by ctx, and closes the client.
func (p *Producer) Close(ctx context.Context) error {
	defer p.client.Close()
	if err := p.client.Flush(ctx); err != nil {
		return fmt.Errorf("flush kafka producer: %w", err)
	}
	return nil
}
