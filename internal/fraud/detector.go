// Package fraud flags identity material that has already been presented by
// a different owner.
package fraud

import (
	"context"
	"log/slog"

	"veritrust/internal/ledger/models"
	"veritrust/pkg/requestcontext"
)

// Reasons reported when a check is flagged.
const (
	ReasonIDReused   = "ID reused by another user"
	ReasonFaceReused = "Face reused by another user"
)

// Ledger is the subset of the ledger store the detector needs.
type Ledger interface {
	Insert(ctx context.Context, rec *models.Record)
	FindBy(ctx context.Context, field, value string) []models.Record
}

// Verdict is the outcome of one duplicate-use check. Reason is empty when
// Flagged is false.
type Verdict struct {
	Flagged bool
	Reason  string
}

// Detector is stateless apart from the ledger it reads and appends to.
type Detector struct {
	ledger Ledger
	logger *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func New(ledger Ledger, opts ...Option) *Detector {
	d := &Detector{ledger: ledger, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect flags idHash or faceHash when another owner has indexed it before.
// ID reuse takes priority over face reuse. The pair is then indexed for
// ownerID whatever the verdict, so repeated checks append repeated entries.
func (d *Detector) Detect(ctx context.Context, ownerID, idHash, faceHash string) Verdict {
	var verdict Verdict
	switch {
	case d.seenElsewhere(ctx, models.FieldIDHash, idHash, ownerID):
		verdict = Verdict{Flagged: true, Reason: ReasonIDReused}
	case d.seenElsewhere(ctx, models.FieldFaceHash, faceHash, ownerID):
		verdict = Verdict{Flagged: true, Reason: ReasonFaceReused}
	}

	d.ledger.Insert(ctx, &models.Record{
		OwnerID: ownerID,
		Kind:    models.KindFraudIndex,
		Fields: map[string]any{
			models.FieldIDHash:   idHash,
			models.FieldFaceHash: faceHash,
		},
	})

	if verdict.Flagged {
		d.logger.InfoContext(ctx, "duplicate identity material detected",
			"owner_id", ownerID,
			"reason", verdict.Reason,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return verdict
}

func (d *Detector) seenElsewhere(ctx context.Context, field, value, ownerID string) bool {
	for _, rec := range d.ledger.FindBy(ctx, field, value) {
		if rec.OwnerID != ownerID {
			return true
		}
	}
	return false
}
