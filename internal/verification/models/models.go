// Package models holds the verification requests, checker outputs and
// results exchanged between the handler, the service and the checkers.
package models

import (
	"math"
	"strings"

	dErrors "veritrust/pkg/domain-errors"
)

// Risk labels produced by the credit scorer.
const (
	RiskLow    = "Low Risk"
	RiskMedium = "Medium Risk"
	RiskHigh   = "High Risk"
)

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return dErrors.New(dErrors.CodeBadRequest, name+" is required")
	}
	return nil
}

// -----------------------------------------------------------------------------
// Requests
// -----------------------------------------------------------------------------

type FaceRequest struct {
	OwnerID    string
	IDImageURL string
	SelfieURL  string
}

func (r FaceRequest) Validate() error {
	if err := required("user_id", r.OwnerID); err != nil {
		return err
	}
	if r.IDImageURL == "" || r.SelfieURL == "" {
		return dErrors.New(dErrors.CodeBadRequest, "id_image_url and selfie_url are required")
	}
	return nil
}

type DocumentRequest struct {
	OwnerID      string
	DocURL       string
	ExpectedName *string
}

func (r DocumentRequest) Validate() error {
	if err := required("user_id", r.OwnerID); err != nil {
		return err
	}
	return required("doc_url", r.DocURL)
}

type CreditRequest struct {
	OwnerID             string
	KYCValid            bool
	Income              float64
	TransactionsPerWeek int
	FraudFlags          int
	TrustScore          int
}

func (r CreditRequest) Validate() error {
	if err := required("user_id", r.OwnerID); err != nil {
		return err
	}
	switch {
	case math.IsNaN(r.Income) || math.IsInf(r.Income, 0) || r.Income < 0:
		return dErrors.New(dErrors.CodeBadRequest, "income must be a non-negative number")
	case r.TransactionsPerWeek < 0:
		return dErrors.New(dErrors.CodeBadRequest, "transactions_per_week must be >= 0")
	case r.FraudFlags < 0:
		return dErrors.New(dErrors.CodeBadRequest, "fraud_flags must be >= 0")
	case r.TrustScore < 0 || r.TrustScore > 100:
		return dErrors.New(dErrors.CodeBadRequest, "trust_score must be between 0 and 100")
	}
	return nil
}

type FraudRequest struct {
	OwnerID  string
	IDHash   string
	FaceHash string
}

func (r FraudRequest) Validate() error {
	if err := required("user_id", r.OwnerID); err != nil {
		return err
	}
	if r.IDHash == "" || r.FaceHash == "" {
		return dErrors.New(dErrors.CodeBadRequest, "id_hash and face_hash are required")
	}
	return nil
}

// -----------------------------------------------------------------------------
// Checker outputs
// -----------------------------------------------------------------------------

// FaceCheck is the face comparison outcome. Score is in [0, 1].
type FaceCheck struct {
	Match    bool
	Score    float64
	Liveness bool
}

// DocumentFields are the values read off an identity document. Any of them
// may be missing.
type DocumentFields struct {
	Name     *string
	DOB      *string
	IDNumber *string
}

type DocumentCheck struct {
	Fields   DocumentFields
	DocValid bool
	Tampered bool
}

// RiskScore is the credit assessment. CreditScore is in [300, 850].
type RiskScore struct {
	CreditScore int
	RiskLabel   string
	TrustScore  int
}

// -----------------------------------------------------------------------------
// Results
// -----------------------------------------------------------------------------

type FaceResult struct {
	FaceCheck
	ProofHash string
}

type DocumentResult struct {
	DocumentCheck
	ProofHash string
}

type CreditResult struct {
	RiskScore
	ProofHash string
}

// FraudResult deliberately carries no proof hash. Reason is nil when the
// check is not flagged.
type FraudResult struct {
	FraudFlag bool
	Reason    *string
}
