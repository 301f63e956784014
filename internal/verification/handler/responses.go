package handler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	ledgermodels "veritrust/internal/ledger/models"
	"veritrust/internal/verification/models"
)

// FaceResponse is the HTTP response for POST /verify/face.
type FaceResponse struct {
	Match          bool    `json:"match"`
	FaceMatchScore float64 `json:"face_match_score"`
	Liveness       bool    `json:"liveness"`
	ProofHash      string  `json:"proof_hash"`
}

func toFaceResponse(r *models.FaceResult) *FaceResponse {
	return &FaceResponse{
		Match:          r.Match,
		FaceMatchScore: r.Score,
		Liveness:       r.Liveness,
		ProofHash:      r.ProofHash,
	}
}

// DocumentFieldsResponse always carries all three keys; missing values are null.
type DocumentFieldsResponse struct {
	Name     *string `json:"name"`
	DOB      *string `json:"dob"`
	IDNumber *string `json:"id_number"`
}

// DocumentResponse is the HTTP response for POST /verify/document.
type DocumentResponse struct {
	Fields    DocumentFieldsResponse `json:"fields"`
	DocValid  bool                   `json:"doc_valid"`
	Tampered  bool                   `json:"tampered"`
	ProofHash string                 `json:"proof_hash"`
}

func toDocumentResponse(r *models.DocumentResult) *DocumentResponse {
	return &DocumentResponse{
		Fields: DocumentFieldsResponse{
			Name:     r.Fields.Name,
			DOB:      r.Fields.DOB,
			IDNumber: r.Fields.IDNumber,
		},
		DocValid:  r.DocValid,
		Tampered:  r.Tampered,
		ProofHash: r.ProofHash,
	}
}

// CreditResponse is the HTTP response for POST /score/credit.
type CreditResponse struct {
	CreditScore int    `json:"credit_score"`
	RiskLabel   string `json:"risk_label"`
	TrustScore  int    `json:"trust_score"`
	ProofHash   string `json:"proof_hash"`
}

func toCreditResponse(r *models.CreditResult) *CreditResponse {
	return &CreditResponse{
		CreditScore: r.CreditScore,
		RiskLabel:   r.RiskLabel,
		TrustScore:  r.TrustScore,
		ProofHash:   r.ProofHash,
	}
}

// FraudResponse is the HTTP response for POST /fraud/check.
type FraudResponse struct {
	FraudFlag bool    `json:"fraud_flag"`
	Reason    *string `json:"reason"`
}

// VerifyProofResponse is the HTTP response for POST /proofs/verify.
type VerifyProofResponse struct {
	Valid    bool   `json:"valid"`
	Computed string `json:"computed"`
}

// RecordResponse is one entry of GET /users/{ownerID}/records. Kind-specific
// fields stay nested and canonically encoded so they can be re-submitted to
// /proofs/verify unchanged.
type RecordResponse struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Kind      string          `json:"kind"`
	Fields    json.RawMessage `json:"fields"`
	ProofHash string          `json:"proof_hash,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// RecordsResponse is the HTTP response for GET /users/{ownerID}/records.
type RecordsResponse struct {
	OwnerID string           `json:"owner_id"`
	Records []RecordResponse `json:"records"`
}

func toRecordsResponse(ownerID string, recs []ledgermodels.Record) (*RecordsResponse, error) {
	out := &RecordsResponse{OwnerID: ownerID, Records: make([]RecordResponse, 0, len(recs))}
	for _, rec := range recs {
		fields, err := ledgermodels.EncodeFields(rec.Fields)
		if err != nil {
			return nil, err
		}
		out.Records = append(out.Records, RecordResponse{
			ID:        rec.ID,
			OwnerID:   rec.OwnerID,
			Kind:      string(rec.Kind),
			Fields:    fields,
			ProofHash: rec.ProofHash,
			CreatedAt: rec.CreatedAt,
		})
	}
	return out, nil
}
