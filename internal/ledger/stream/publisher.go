// Package stream mirrors accepted ledger records onto a Kafka topic for
// downstream consumers. Publishing is best effort; the ledger remains the
// source of truth.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"veritrust/internal/ledger/models"
)

// Producer sends one keyed message.
type Producer interface {
	Publish(ctx context.Context, key, value []byte) error
}

// DefaultTimeout bounds one publish when no WithTimeout option is given.
const DefaultTimeout = time.Second

// Publisher encodes records and hands them to a Producer. A nil *Publisher
// discards everything.
type Publisher struct {
	producer Producer
	timeout  time.Duration
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithTimeout sets the per-record publish deadline. Non-positive values keep
// the default.
func WithTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// New returns nil when producer is nil, which disables publishing.
func New(producer Producer, opts ...Option) *Publisher {
	if producer == nil {
		return nil
	}
	p := &Publisher{producer: producer, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish sends rec keyed by owner so one owner's records stay ordered
// within a partition.
func (p *Publisher) Publish(ctx context.Context, rec models.Record) error {
	if p == nil {
		return nil
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode ledger record %s: %w", rec.ID, err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.producer.Publish(ctx, []byte(rec.OwnerID), value); err != nil {
		return fmt.Errorf("publish ledger record %s: %w", rec.ID, err)
	}
	return nil
}
