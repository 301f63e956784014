// Package ledger persists verification outcomes. A Store writes to a durable
// backend when one is reachable and degrades to a bounded in-memory buffer
// when it is not, so callers never see storage errors.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"veritrust/internal/ledger/metrics"
	"veritrust/internal/ledger/models"
	"veritrust/pkg/platform/circuit"
	"veritrust/pkg/platform/sentinel"
	"veritrust/pkg/requestcontext"
)

// Backend is a durable record store.
type Backend interface {
	Insert(ctx context.Context, rec models.Record) error
	FindBy(ctx context.Context, field, value string) ([]models.Record, error)
	Close() error
}

// Connector creates a Backend and verifies it is reachable. It must return
// once ctx is done.
type Connector func(ctx context.Context) (Backend, error)

const (
	defaultConnectTimeout = 1500 * time.Millisecond
	defaultOpTimeout      = 2 * time.Second
)

// Store is safe for concurrent use.
type Store struct {
	connect        Connector
	logger         *slog.Logger
	metrics        *metrics.Metrics
	breaker        *circuit.Breaker
	connectTimeout time.Duration
	opTimeout      time.Duration
	newID          func() uuid.UUID

	dial     singleflight.Group
	mu       sync.Mutex
	backend  Backend
	lastTime time.Time

	fallback *fallbackBuffer
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithBreaker replaces the default breaker guarding the backend.
func WithBreaker(b *circuit.Breaker) Option {
	return func(s *Store) {
		if b != nil {
			s.breaker = b
		}
	}
}

func WithFallbackCapacity(n int) Option {
	return func(s *Store) {
		s.fallback = newFallbackBuffer(n)
	}
}

// WithConnectTimeout bounds the one-time connect and liveness probe.
func WithConnectTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.connectTimeout = d
		}
	}
}

// WithOpTimeout bounds each backend insert or lookup.
func WithOpTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.opTimeout = d
		}
	}
}

// WithIDGenerator overrides uuid.New for tests.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New creates a Store. A nil connector runs the store on the fallback buffer
// alone. The backend is not contacted until the first operation.
func New(connect Connector, opts ...Option) *Store {
	s := &Store{
		connect:        connect,
		logger:         slog.Default(),
		breaker:        circuit.New("ledger"),
		connectTimeout: defaultConnectTimeout,
		opTimeout:      defaultOpTimeout,
		newID:          uuid.New,
		fallback:       newFallbackBuffer(DefaultFallbackCapacity),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics.SetDegraded(connect == nil)
	return s
}

// Insert assigns the record's ID and CreatedAt and stores it. Failures of
// the durable backend route the record to the fallback buffer; Insert itself
// never fails.
func (s *Store) Insert(ctx context.Context, rec *models.Record) {
	s.stamp(ctx, rec)
	stored := rec.Clone()

	backend, err := s.handle(ctx)
	if err == nil {
		opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
		err = backend.Insert(opCtx, stored)
		cancel()
		s.observe(ctx, "insert", err)
		if err == nil {
			s.metrics.IncrementInsert(metrics.DestinationBackend)
			return
		}
	}

	if s.connect != nil {
		s.logger.WarnContext(ctx, "ledger backend unavailable, buffering record in memory",
			"error", err,
			"record_id", rec.ID,
			"kind", rec.Kind,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	if s.fallback.append(stored) {
		s.logger.WarnContext(ctx, "ledger fallback buffer full, evicted oldest record",
			"capacity", s.fallback.capacity,
		)
		s.metrics.IncrementEviction()
	}
	s.metrics.IncrementInsert(metrics.DestinationFallback)
	s.metrics.SetFallbackSize(s.fallback.len())
}

// FindBy returns every record whose field equals value. Backend results are
// merged with fallback matches, de-duplicated by ID. Order is unspecified.
func (s *Store) FindBy(ctx context.Context, field, value string) []models.Record {
	start := time.Now()
	defer func() { s.metrics.ObserveLookup(time.Since(start)) }()

	local := s.fallback.find(field, value)

	backend, err := s.handle(ctx)
	if err != nil {
		return local
	}
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	found, err := backend.FindBy(opCtx, field, value)
	cancel()
	s.observe(ctx, "find", err)
	if err != nil {
		s.logger.WarnContext(ctx, "ledger lookup failed, serving fallback matches only",
			"error", err,
			"field", field,
			"request_id", requestcontext.RequestID(ctx),
		)
		return local
	}
	return merge(found, local)
}

// Degraded reports whether calls are currently bypassing the durable backend.
func (s *Store) Degraded() bool {
	if s.connect == nil {
		return true
	}
	s.mu.Lock()
	connected := s.backend != nil
	s.mu.Unlock()
	return !connected || s.breaker.IsOpen()
}

// Buffered returns the number of records held in the fallback buffer.
func (s *Store) Buffered() int {
	return s.fallback.len()
}

// Close releases the backend, if one was created.
func (s *Store) Close() error {
	s.mu.Lock()
	backend := s.backend
	s.backend = nil
	s.mu.Unlock()
	if backend == nil {
		return nil
	}
	if err := backend.Close(); err != nil {
		return fmt.Errorf("close ledger backend: %w", err)
	}
	return nil
}

// stamp assigns a fresh ID and a CreatedAt that never goes backwards, even
// when request clocks differ.
func (s *Store) stamp(ctx context.Context, rec *models.Record) {
	rec.ID = s.newID()
	now := requestcontext.Now(ctx).UTC()
	s.mu.Lock()
	if now.Before(s.lastTime) {
		now = s.lastTime
	}
	s.lastTime = now
	s.mu.Unlock()
	rec.CreatedAt = now
	if rec.Fields == nil {
		rec.Fields = map[string]any{}
	}
}

// handle returns the memoized backend, creating it on first use.
func (s *Store) handle(ctx context.Context) (Backend, error) {
	if s.connect == nil {
		return nil, sentinel.ErrUnavailable
	}
	if !s.breaker.Allow() {
		return nil, sentinel.ErrCircuitOpen
	}
	s.mu.Lock()
	backend := s.backend
	s.mu.Unlock()
	if backend != nil {
		return backend, nil
	}

	v, err, _ := s.dial.Do("connect", func() (any, error) {
		s.mu.Lock()
		if s.backend != nil {
			b := s.backend
			s.mu.Unlock()
			return b, nil
		}
		s.mu.Unlock()

		// One caller giving up must not fail the shared dial for the others.
		dialCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.connectTimeout)
		defer cancel()
		b, err := s.connect(dialCtx)
		if err != nil {
			s.metrics.IncrementBackendError("connect")
			if change := s.breaker.Trip(); change.Opened {
				s.metrics.SetDegraded(true)
			}
			s.logger.WarnContext(ctx, "ledger backend connect failed",
				"error", err,
				"retry_after", s.breaker.Cooldown(),
			)
			return nil, errors.Join(sentinel.ErrUnavailable, err)
		}

		s.mu.Lock()
		s.backend = b
		s.mu.Unlock()
		s.breaker.Reset()
		s.metrics.SetDegraded(false)
		s.logger.InfoContext(ctx, "ledger backend connected")
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Backend), nil
}

// observe feeds an operation outcome to the breaker.
func (s *Store) observe(ctx context.Context, op string, err error) {
	if err != nil {
		s.metrics.IncrementBackendError(op)
		if _, change := s.breaker.RecordFailure(); change.Opened {
			s.metrics.SetDegraded(true)
			s.logger.WarnContext(ctx, "ledger circuit opened, bypassing backend",
				"op", op,
				"error", err,
				"retry_after", s.breaker.Cooldown(),
			)
		}
		return
	}
	if _, change := s.breaker.RecordSuccess(); change.Closed {
		s.metrics.SetDegraded(false)
		s.logger.InfoContext(ctx, "ledger circuit closed, backend recovered")
	}
}

func merge(primary, extra []models.Record) []models.Record {
	if len(extra) == 0 {
		return primary
	}
	seen := make(map[uuid.UUID]struct{}, len(primary))
	for _, rec := range primary {
		seen[rec.ID] = struct{}{}
	}
	out := primary
	for _, rec := range extra {
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}
	return out
}
