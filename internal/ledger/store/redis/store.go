// Package redis is the durable ledger backend on Redis. Each record is stored
// as one JSON string; secondary lookups go through per-value ID sets.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"veritrust/internal/ledger"
	"veritrust/internal/ledger/models"
	"veritrust/internal/platform/config"
	redisplatform "veritrust/internal/platform/redis"
)

// DefaultKeyPrefix namespaces ledger keys.
const DefaultKeyPrefix = "veritrust:ledger:"

// Store keeps records under <prefix>record:<id> and indexes them in sets
// named <prefix>idx:<field>:<value>.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// Connector dials Redis using cfg and returns the store as a ledger backend.
func Connector(cfg config.Redis) ledger.Connector {
	return func(ctx context.Context) (ledger.Backend, error) {
		client, err := redisplatform.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return New(client.Client, cfg.KeyPrefix), nil
	}
}

// New wraps an established client.
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) recordKey(id string) string {
	return s.prefix + "record:" + id
}

func (s *Store) indexKey(field, value string) string {
	return s.prefix + "idx:" + field + ":" + value
}

func (s *Store) Insert(ctx context.Context, rec models.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode ledger record: %w", err)
	}
	id := rec.ID.String()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.recordKey(id), data, 0)
		for _, field := range indexedFields(rec) {
			value, _ := rec.Value(field)
			pipe.SAdd(ctx, s.indexKey(field, value), id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert ledger record: %w", err)
	}
	return nil
}

func (s *Store) FindBy(ctx context.Context, field, value string) ([]models.Record, error) {
	var ids []string
	if field == models.FieldID {
		ids = []string{value}
	} else {
		members, err := s.client.SMembers(ctx, s.indexKey(field, value)).Result()
		if err != nil {
			return nil, fmt.Errorf("find ledger records by %s: %w", field, err)
		}
		ids = members
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load ledger records: %w", err)
	}

	out := make([]models.Record, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var rec models.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode ledger record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// indexedFields lists every lookup field with a string value on rec.
func indexedFields(rec models.Record) []string {
	fields := []string{models.FieldOwnerID, models.FieldKind}
	if rec.ProofHash != "" {
		fields = append(fields, models.FieldProofHash)
	}
	for k, v := range rec.Fields {
		if _, ok := v.(string); ok {
			fields = append(fields, k)
		}
	}
	return fields
}
