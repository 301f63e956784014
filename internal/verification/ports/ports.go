// Package ports declares the collaborators the verification service is
// composed from. Implementations are chosen in main.
package ports

import (
	"context"

	"veritrust/internal/fraud"
	ledgermodels "veritrust/internal/ledger/models"
	"veritrust/internal/verification/models"
)

// FaceChecker compares an ID photo against a selfie.
type FaceChecker interface {
	Check(ctx context.Context, idImageURL, selfieURL string) (models.FaceCheck, error)
}

// DocumentChecker reads and validates an identity document.
type DocumentChecker interface {
	Check(ctx context.Context, docURL string, expectedName *string) (models.DocumentCheck, error)
}

// RiskScorer turns applicant signals into a credit assessment.
type RiskScorer interface {
	Score(ctx context.Context, kycValid bool, income float64, txPerWeek, fraudFlags, trustScore int) (models.RiskScore, error)
}

// Ledger is where outcomes are recorded. Inserts never fail.
type Ledger interface {
	Insert(ctx context.Context, rec *ledgermodels.Record)
	FindBy(ctx context.Context, field, value string) []ledgermodels.Record
}

// FraudDetector runs the duplicate-use check.
type FraudDetector interface {
	Detect(ctx context.Context, ownerID, idHash, faceHash string) fraud.Verdict
}

// Publisher mirrors recorded outcomes to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, rec ledgermodels.Record) error
}
