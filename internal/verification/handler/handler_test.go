package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"veritrust/internal/fraud"
	"veritrust/internal/ledger"
	ledgermodels "veritrust/internal/ledger/models"
	"veritrust/internal/verification"
	"veritrust/internal/verification/checkers"
	"veritrust/internal/verification/handler"
	"veritrust/pkg/platform/middleware/auth"
	"veritrust/pkg/proof"
	"veritrust/pkg/testutil"
)

// =============================================================================
// Verification Handler Test Suite
// =============================================================================
// Exercises the wire contract over the real service and an in-memory ledger:
// request validation, response shapes and the proof round trip.

type HandlerSuite struct {
	suite.Suite
	router http.Handler
	ledger *ledger.Store
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.ledger = ledger.New(nil, ledger.WithLogger(logger))
	svc, err := verification.New(
		checkers.NewFaceChecker(checkers.DefaultMatchThreshold),
		checkers.NewDocumentChecker(),
		checkers.NewRiskScorer(),
		s.ledger,
		fraud.New(s.ledger, fraud.WithLogger(logger)),
		verification.WithLogger(logger),
	)
	s.Require().NoError(err)

	r := chi.NewRouter()
	handler.New(svc, logger).Register(r, auth.RequireBearer(false, logger))
	s.router = r
}

func (s *HandlerSuite) post(path string, body any) *httptest.ResponseRecorder {
	req := testutil.WithBearer(testutil.NewJSONRequest(s.T(), http.MethodPost, path, body), "token")
	return testutil.DoRequest(s.router, req)
}

func (s *HandlerSuite) TestVerifyFace() {
	s.Run("returns the check and its proof", func() {
		rr := s.post("/verify/face", map[string]any{"user_id": "u1", "id_image_url": "id-1", "selfie_url": "selfie-1"})

		s.Equal(http.StatusOK, rr.Code)
		s.JSONEq(`{
			"match": true,
			"face_match_score": 0.7415,
			"liveness": true,
			"proof_hash": "0xf927dddb73801fecdcc9dc713ed5ce5aa18e95eaa12953837d9695ce77b0989b"
		}`, rr.Body.String())
	})

	s.Run("missing selfie is a bad request", func() {
		rr := s.post("/verify/face", map[string]any{"user_id": "u1", "id_image_url": "id-1"})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("malformed json is a bad request", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/verify/face", `{"user_id":`)
		rr := testutil.DoRequest(s.router, testutil.WithBearer(req, "token"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *HandlerSuite) TestVerifyDocument() {
	rr := s.post("/verify/document", map[string]any{
		"user_id": "u1", "doc_url": "https://cdn.example/passport.png", "expected_name": "Ada Lovelace",
	})

	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{
		"fields": {"name": "Ada Lovelace", "dob": null, "id_number": "8361-7432-6503"},
		"doc_valid": true,
		"tampered": false,
		"proof_hash": "0xe97c7e7bab891f9a8332cbd86abd701f409af5899bef8744750caacee6dc0394"
	}`, rr.Body.String())
}

func (s *HandlerSuite) TestScoreCredit() {
	s.Run("reference applicant", func() {
		rr := s.post("/score/credit", map[string]any{
			"user_id": "u1", "kyc_valid": true, "income": 5000, "transactions_per_week": 10,
			"fraud_flags": 0, "trust_score": 80,
		})

		s.Equal(http.StatusOK, rr.Code)
		s.JSONEq(`{
			"credit_score": 755,
			"risk_label": "Low Risk",
			"trust_score": 80,
			"proof_hash": "0x920667f7c426de8b5d5410ecbcd215c6b6ec2700b02f8a16a224458174b3f23e"
		}`, rr.Body.String())
	})

	s.Run("missing numeric field is rejected", func() {
		rr := s.post("/score/credit", map[string]any{"user_id": "u1", "kyc_valid": true, "income": 5000})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("user_id is hashed verbatim", func() {
		rr := s.post("/score/credit", map[string]any{
			"user_id": " u1 ", "kyc_valid": true, "income": 5000, "transactions_per_week": 10,
			"fraud_flags": 0, "trust_score": 80,
		})
		s.Require().Equal(http.StatusOK, rr.Code)
		got := testutil.UnmarshalResponse[handler.CreditResponse](s.T(), rr)

		s.NotEqual("0x920667f7c426de8b5d5410ecbcd215c6b6ec2700b02f8a16a224458174b3f23e", got.ProofHash)
		fields := map[string]any{"credit_score": 755, "risk_label": "Low Risk", "trust_score": 80}
		ok, err := proof.Verify(got.ProofHash, " u1 ", string(ledgermodels.KindScore), fields)
		s.Require().NoError(err)
		s.True(ok)
		s.Len(s.ledger.FindBy(context.Background(), ledgermodels.FieldOwnerID, " u1 "), 1)
	})

	s.Run("blank user_id is rejected", func() {
		rr := s.post("/score/credit", map[string]any{
			"user_id": "   ", "kyc_valid": true, "income": 5000, "transactions_per_week": 10,
			"fraud_flags": 0, "trust_score": 80,
		})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("trust above 100 is rejected", func() {
		rr := s.post("/score/credit", map[string]any{
			"user_id": "u1", "kyc_valid": true, "income": 5000, "transactions_per_week": 10,
			"fraud_flags": 0, "trust_score": 101,
		})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *HandlerSuite) TestFraudCheck() {
	rr := s.post("/fraud/check", map[string]any{"user_id": "u1", "id_hash": "H1", "face_hash": "F1"})
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"fraud_flag": false, "reason": null}`, rr.Body.String())

	rr = s.post("/fraud/check", map[string]any{"user_id": "u2", "id_hash": "H1", "face_hash": "F2"})
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"fraud_flag": true, "reason": "ID reused by another user"}`, rr.Body.String())
	s.NotContains(rr.Body.String(), "proof_hash")
}

func (s *HandlerSuite) TestRecordsRoundTripThroughProofVerification() {
	s.post("/verify/face", map[string]any{"user_id": "u7", "id_image_url": "id-1", "selfie_url": "selfie-1"})

	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/users/u7/records", nil)
	rr := testutil.DoRequest(s.router, testutil.WithBearer(req, "token"))
	s.Require().Equal(http.StatusOK, rr.Code)
	listed := testutil.UnmarshalResponse[handler.RecordsResponse](s.T(), rr)
	s.Require().Len(listed.Records, 1)
	rec := listed.Records[0]
	s.Equal("face", rec.Kind)

	var fields map[string]any
	s.Require().NoError(json.Unmarshal(rec.Fields, &fields))
	s.Empty(cmp.Diff(map[string]any{"match": true, "face_match_score": 0.7415, "liveness": true}, fields))

	verify := func(owner string) *handler.VerifyProofResponse {
		body := map[string]any{
			"owner_id":   owner,
			"kind":       rec.Kind,
			"fields":     rec.Fields,
			"proof_hash": rec.ProofHash,
		}
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/proofs/verify", body))
		s.Require().Equal(http.StatusOK, rr.Code)
		return testutil.UnmarshalResponse[handler.VerifyProofResponse](s.T(), rr)
	}

	s.True(verify("u7").Valid)
	s.False(verify("someone-else").Valid)
}

func (s *HandlerSuite) TestVerifyProofRejectsIndexKind() {
	body := map[string]any{"owner_id": "u1", "kind": "fraud-index", "fields": map[string]any{}, "proof_hash": "0x00"}
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/proofs/verify", body))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func (s *HandlerSuite) TestProtectedRoutesRequireBearer() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/verify/face",
		map[string]any{"user_id": "u1", "id_image_url": "id-1", "selfie_url": "selfie-1"})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")

	s.Empty(s.ledger.FindBy(context.Background(), ledgermodels.FieldOwnerID, "u1"), "rejected requests leave no records")
}

func TestRecordsSkipAuthWhenDisabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := ledger.New(nil)
	svc, err := verification.New(
		checkers.NewFaceChecker(checkers.DefaultMatchThreshold), checkers.NewDocumentChecker(), checkers.NewRiskScorer(),
		store, fraud.New(store),
	)
	require.NoError(t, err)
	r := chi.NewRouter()
	handler.New(svc, logger).Register(r, auth.RequireBearer(true, logger))

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodGet, "/users/nobody/records", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"owner_id":"nobody","records":[]}`, rr.Body.String())
}
