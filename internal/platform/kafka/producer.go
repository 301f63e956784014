// Package kafka wraps a franz-go client for publishing ledger records.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"veritrust/internal/platform/config"
)

// Producer publishes keyed messages to a single topic.
type Producer struct {
	client  *kgo.Client
	topic   string
	timeout time.Duration
}

// NewProducer creates a producer for cfg.LedgerTopic. Connections are opened
// lazily by franz-go on first produce.
func NewProducer(cfg config.Kafka) (*Producer, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("kafka brokers are not configured")
	}
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.DefaultProduceTopic(cfg.LedgerTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}
	if cfg.PublishTimeout > 0 {
		// Records still buffered past the deadline are failed by the client
		// even when a caller's context never expires.
		opts = append(opts, kgo.RecordDeliveryTimeout(cfg.PublishTimeout))
	}
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Producer{client: client, topic: cfg.LedgerTopic, timeout: cfg.PublishTimeout}, nil
}

// Topic returns the topic records are produced to.
func (p *Producer) Topic() string {
	return p.topic
}

// EnsureTopic creates the topic if it does not exist yet.
func (p *Producer) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	admin := kadm.NewClient(p.client)
	resp, err := admin.CreateTopics(ctx, partitions, replicationFactor, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Publish synchronously produces one message, giving up after the configured
// publish timeout.
func (p *Producer) Publish(ctx context.Context, key, value []byte) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	results := p.client.ProduceSync(ctx, &kgo.Record{Topic: p.topic, Key: key, Value: value})
	if err := results.FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", p.topic, err)
	}
	return nil
}

// Close releases the client.
func (p *Producer) Close() {
	p.client.Close()
}
