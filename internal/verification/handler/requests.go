package handler

import (
	"bytes"
	"encoding/json"
	"strings"

	ledgermodels "veritrust/internal/ledger/models"
	"veritrust/internal/verification/models"
	dErrors "veritrust/pkg/domain-errors"
)

// FaceRequest is the HTTP request body for POST /verify/face.
type FaceRequest struct {
	UserID     string `json:"user_id"`
	IDImageURL string `json:"id_image_url"`
	SelfieURL  string `json:"selfie_url"`
}

// Validate implements httputil.Validatable. user_id is kept verbatim because
// it is hashed into the proof; whitespace-only values are rejected.
func (r *FaceRequest) Validate() error {
	return r.toModel().Validate()
}

func (r *FaceRequest) toModel() models.FaceRequest {
	return models.FaceRequest{OwnerID: r.UserID, IDImageURL: r.IDImageURL, SelfieURL: r.SelfieURL}
}

// DocumentRequest is the HTTP request body for POST /verify/document.
type DocumentRequest struct {
	UserID       string  `json:"user_id"`
	DocURL       string  `json:"doc_url"`
	ExpectedName *string `json:"expected_name"`
}

func (r *DocumentRequest) Validate() error {
	return r.toModel().Validate()
}

func (r *DocumentRequest) toModel() models.DocumentRequest {
	return models.DocumentRequest{OwnerID: r.UserID, DocURL: r.DocURL, ExpectedName: r.ExpectedName}
}

// CreditRequest is the HTTP request body for POST /score/credit. Pointers
// distinguish missing fields from zero values.
type CreditRequest struct {
	UserID              string   `json:"user_id"`
	KYCValid            *bool    `json:"kyc_valid"`
	Income              *float64 `json:"income"`
	TransactionsPerWeek *int     `json:"transactions_per_week"`
	FraudFlags          *int     `json:"fraud_flags"`
	TrustScore          *int     `json:"trust_score"`
}

func (r *CreditRequest) Validate() error {
	switch {
	case r.KYCValid == nil:
		return dErrors.New(dErrors.CodeBadRequest, "kyc_valid is required")
	case r.Income == nil:
		return dErrors.New(dErrors.CodeBadRequest, "income is required")
	case r.TransactionsPerWeek == nil:
		return dErrors.New(dErrors.CodeBadRequest, "transactions_per_week is required")
	case r.FraudFlags == nil:
		return dErrors.New(dErrors.CodeBadRequest, "fraud_flags is required")
	case r.TrustScore == nil:
		return dErrors.New(dErrors.CodeBadRequest, "trust_score is required")
	}
	return r.toModel().Validate()
}

func (r *CreditRequest) toModel() models.CreditRequest {
	m := models.CreditRequest{OwnerID: r.UserID}
	if r.KYCValid != nil {
		m.KYCValid = *r.KYCValid
	}
	if r.Income != nil {
		m.Income = *r.Income
	}
	if r.TransactionsPerWeek != nil {
		m.TransactionsPerWeek = *r.TransactionsPerWeek
	}
	if r.FraudFlags != nil {
		m.FraudFlags = *r.FraudFlags
	}
	if r.TrustScore != nil {
		m.TrustScore = *r.TrustScore
	}
	return m
}

// FraudRequest is the HTTP request body for POST /fraud/check.
type FraudRequest struct {
	UserID   string `json:"user_id"`
	IDHash   string `json:"id_hash"`
	FaceHash string `json:"face_hash"`
}

func (r *FraudRequest) Validate() error {
	return r.toModel().Validate()
}

func (r *FraudRequest) toModel() models.FraudRequest {
	return models.FraudRequest{OwnerID: r.UserID, IDHash: r.IDHash, FaceHash: r.FaceHash}
}

// VerifyProofRequest is the HTTP request body for POST /proofs/verify.
// Fields are decoded separately so numbers keep their exact text.
type VerifyProofRequest struct {
	OwnerID   string         `json:"owner_id"`
	Kind      string         `json:"kind"`
	ProofHash string         `json:"proof_hash"`
	Fields    map[string]any `json:"-"`

	parsedKind ledgermodels.Kind
}

func (r *VerifyProofRequest) Validate() error {
	if strings.TrimSpace(r.OwnerID) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "owner_id is required")
	}
	if r.ProofHash == "" {
		return dErrors.New(dErrors.CodeBadRequest, "proof_hash is required")
	}
	r.parsedKind = ledgermodels.Kind(strings.TrimSpace(r.Kind))
	if !r.parsedKind.IsValid() || !r.parsedKind.HasProof() {
		return dErrors.New(dErrors.CodeBadRequest, "kind must be one of face, document, score, fraud-check")
	}
	if r.Fields == nil {
		return dErrors.New(dErrors.CodeBadRequest, "fields is required")
	}
	return nil
}

// UnmarshalJSON decodes fields with json.Number so the proof is recomputed
// over exactly the submitted values.
func (r *VerifyProofRequest) UnmarshalJSON(data []byte) error {
	type alias VerifyProofRequest
	aux := struct {
		*alias
		RawFields json.RawMessage `json:"fields"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.RawFields) == 0 || bytes.Equal(aux.RawFields, []byte("null")) {
		return nil
	}
	fields, err := ledgermodels.DecodeFields(aux.RawFields)
	if err != nil {
		return err
	}
	r.Fields = fields
	return nil
}
