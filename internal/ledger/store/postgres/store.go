// Package postgres is the durable ledger backend on PostgreSQL. Kind-specific
// fields live in a jsonb column; lookups on them use a GIN containment index.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"veritrust/internal/ledger"
	"veritrust/internal/ledger/models"
	pgplatform "veritrust/internal/platform/postgres"
)

// DefaultTable is used when no table name is configured.
const DefaultTable = "verifications"

// Store persists ledger records in a single table.
type Store struct {
	pool   *pgxpool.Pool
	table  string
	insert string
	find   string
}

// Connector opens a pool for url, ensures the schema and returns the store
// as a ledger backend.
func Connector(url, table string) ledger.Connector {
	return func(ctx context.Context) (ledger.Backend, error) {
		pool, err := pgplatform.Open(ctx, url)
		if err != nil {
			return nil, err
		}
		store, err := New(ctx, pool, table)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	}
}

// New wraps pool and creates the table and indexes if they are missing.
func New(ctx context.Context, pool *pgxpool.Pool, table string) (*Store, error) {
	if table == "" {
		table = DefaultTable
	}
	quoted := pq.QuoteIdentifier(table)
	s := &Store{
		pool:  pool,
		table: quoted,
		insert: `INSERT INTO ` + quoted + ` (id, owner_id, kind, fields, proof_hash, created_at)
			VALUES ($1::uuid, $2, $3, $4::jsonb, NULLIF($5, ''), $6)`,
		find: `SELECT id::text, owner_id, kind, fields::text, COALESCE(proof_hash, ''), created_at FROM ` + quoted,
	}
	if err := s.ensureSchema(ctx, table); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context, table string) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + s.table + ` (
			id          uuid PRIMARY KEY,
			owner_id    text NOT NULL,
			kind        text NOT NULL,
			fields      jsonb NOT NULL DEFAULT '{}'::jsonb,
			proof_hash  text,
			created_at  timestamptz NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ` + pq.QuoteIdentifier(table+"_owner_idx") + ` ON ` + s.table + ` (owner_id)`,
		`CREATE INDEX IF NOT EXISTS ` + pq.QuoteIdentifier(table+"_proof_idx") + ` ON ` + s.table + ` (proof_hash)`,
		`CREATE INDEX IF NOT EXISTS ` + pq.QuoteIdentifier(table+"_fields_idx") + ` ON ` + s.table + ` USING GIN (fields jsonb_path_ops)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure ledger schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, rec models.Record) error {
	fields, err := models.EncodeFields(rec.Fields)
	if err != nil {
		return fmt.Errorf("encode record fields: %w", err)
	}
	_, err = s.pool.Exec(ctx, s.insert,
		rec.ID.String(), rec.OwnerID, string(rec.Kind), string(fields), rec.ProofHash, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ledger record: %w", err)
	}
	return nil
}

func (s *Store) FindBy(ctx context.Context, field, value string) ([]models.Record, error) {
	var (
		rows pgx.Rows
		err  error
	)
	switch field {
	case models.FieldID:
		if _, perr := uuid.Parse(value); perr != nil {
			return nil, nil
		}
		rows, err = s.pool.Query(ctx, s.find+` WHERE id = $1::uuid`, value)
	case models.FieldOwnerID, models.FieldKind, models.FieldProofHash:
		// field is one of a closed set of column names.
		rows, err = s.pool.Query(ctx, s.find+` WHERE `+field+` = $1`, value)
	default:
		rows, err = s.pool.Query(ctx, s.find+` WHERE fields @> jsonb_build_object($1::text, $2::text)`, field, value)
	}
	if err != nil {
		return nil, fmt.Errorf("find ledger records by %s: %w", field, err)
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger records: %w", err)
	}
	return out, nil
}

func scanRecord(rows pgx.Rows) (models.Record, error) {
	var (
		id, owner, kind, fields, proofHash string
		createdAt                          time.Time
	)
	if err := rows.Scan(&id, &owner, &kind, &fields, &proofHash, &createdAt); err != nil {
		return models.Record{}, fmt.Errorf("scan ledger record: %w", err)
	}
	recID, err := uuid.Parse(id)
	if err != nil {
		return models.Record{}, fmt.Errorf("parse ledger record id: %w", err)
	}
	decoded, err := models.DecodeFields([]byte(fields))
	if err != nil {
		return models.Record{}, err
	}
	return models.Record{
		ID:        recID,
		OwnerID:   owner,
		Kind:      models.Kind(kind),
		Fields:    decoded,
		ProofHash: proofHash,
		CreatedAt: createdAt.UTC(),
	}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
