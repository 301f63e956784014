// Package models defines the ledger's persisted record and its wire shape.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"veritrust/pkg/proof"
)

// Kind tags what produced a record.
type Kind string

const (
	KindFace       Kind = "face"
	KindDocument   Kind = "document"
	KindScore      Kind = "score"
	KindFraudCheck Kind = "fraud-check"
	KindFraudIndex Kind = "fraud-index"
)

// IsValid reports whether k is one of the known record kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindFace, KindDocument, KindScore, KindFraudCheck, KindFraudIndex:
		return true
	}
	return false
}

// HasProof reports whether records of this kind carry a proof hash.
// Fraud-index entries are lookup rows, not attestations.
func (k Kind) HasProof() bool {
	return k != KindFraudIndex
}

func (k Kind) String() string { return string(k) }

// Top-level record attributes. Any other lookup field is resolved against
// the kind-specific Fields.
const (
	FieldID        = "id"
	FieldOwnerID   = "owner_id"
	FieldKind      = "kind"
	FieldProofHash = "proof_hash"
	FieldCreatedAt = "created_at"
)

// Index-entry field names written by the fraud detector.
const (
	FieldIDHash   = "id_hash"
	FieldFaceHash = "face_hash"
)

// Record is one immutable ledger entry. On the wire the kind-specific
// Fields are flattened next to the top-level attributes.
type Record struct {
	ID        uuid.UUID
	OwnerID   string
	Kind      Kind
	Fields    map[string]any
	ProofHash string
	CreatedAt time.Time
}

// Clone returns a copy whose Fields, including nested objects and arrays,
// can be mutated independently.
func (r Record) Clone() Record {
	if r.Fields != nil {
		r.Fields = cloneValue(r.Fields).(map[string]any)
	}
	return r
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Value resolves a lookup field to its string value. Non-string field values
// never match.
func (r Record) Value(field string) (string, bool) {
	switch field {
	case FieldID:
		return r.ID.String(), true
	case FieldOwnerID:
		return r.OwnerID, true
	case FieldKind:
		return string(r.Kind), true
	case FieldProofHash:
		return r.ProofHash, r.ProofHash != ""
	}
	s, ok := r.Fields[field].(string)
	return s, ok
}

// Matches reports whether the record's field equals value.
func (r Record) Matches(field, value string) bool {
	v, ok := r.Value(field)
	return ok && v == value
}

func isReserved(key string) bool {
	switch key {
	case FieldID, FieldOwnerID, FieldKind, FieldProofHash, FieldCreatedAt:
		return true
	}
	return false
}

// MarshalJSON writes the flattened record using the canonical encoder, so
// float fields keep the exact textual form they were hashed with.
func (r Record) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Fields)+5)
	for k, v := range r.Fields {
		if isReserved(k) {
			return nil, fmt.Errorf("field %q collides with a record attribute", k)
		}
		flat[k] = v
	}
	flat[FieldID] = r.ID.String()
	flat[FieldOwnerID] = r.OwnerID
	flat[FieldKind] = string(r.Kind)
	flat[FieldCreatedAt] = r.CreatedAt.UTC().Format(time.RFC3339Nano)
	if r.ProofHash != "" {
		flat[FieldProofHash] = r.ProofHash
	}
	return proof.Encode(flat)
}

// UnmarshalJSON is the inverse of MarshalJSON. Numbers decode as json.Number
// so a stored proof can be recomputed byte for byte.
func (r *Record) UnmarshalJSON(data []byte) error {
	flat, err := DecodeFields(data)
	if err != nil {
		return err
	}
	var rec Record
	if s, ok := flat[FieldID].(string); ok && s != "" {
		if rec.ID, err = uuid.Parse(s); err != nil {
			return fmt.Errorf("parse record id: %w", err)
		}
	}
	rec.OwnerID, _ = flat[FieldOwnerID].(string)
	kind, _ := flat[FieldKind].(string)
	rec.Kind = Kind(kind)
	rec.ProofHash, _ = flat[FieldProofHash].(string)
	if s, ok := flat[FieldCreatedAt].(string); ok && s != "" {
		if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, s); err != nil {
			return fmt.Errorf("parse record created_at: %w", err)
		}
	}
	rec.Fields = make(map[string]any, len(flat))
	for k, v := range flat {
		if !isReserved(k) {
			rec.Fields[k] = v
		}
	}
	*r = rec
	return nil
}

// EncodeFields serializes kind-specific fields for column storage.
func EncodeFields(fields map[string]any) ([]byte, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	return proof.Encode(fields)
}

// DecodeFields parses a JSON object, keeping numbers as json.Number.
func DecodeFields(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode record fields: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}
