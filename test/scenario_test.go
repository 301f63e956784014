package test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritrust/internal/fraud"
	"veritrust/internal/ledger"
	"veritrust/internal/platform/metrics"
	httptransport "veritrust/internal/transport/http"
	"veritrust/internal/verification"
	"veritrust/internal/verification/checkers"
	"veritrust/internal/verification/handler"
	"veritrust/pkg/testutil"
)

func newRouter(t *testing.T) (http.Handler, *ledger.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := ledger.New(nil, ledger.WithLogger(logger))
	svc, err := verification.New(
		checkers.NewFaceChecker(checkers.DefaultMatchThreshold),
		checkers.NewDocumentChecker(),
		checkers.NewRiskScorer(),
		store,
		fraud.New(store, fraud.WithLogger(logger)),
		verification.WithLogger(logger),
	)
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	return httptransport.NewRouter(httptransport.Deps{
		Logger:       logger,
		Verification: handler.New(svc, logger),
		Ledger:       store,
		Metrics:      metrics.New(reg),
		Gatherer:     reg,
		Version:      "test",
		DisableAuth:  true,
	}), store
}

func fraudCheck(t *testing.T, router http.Handler, user, idHash, faceHash string) *handler.FraudResponse {
	t.Helper()
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/fraud/check",
		map[string]any{"user_id": user, "id_hash": idHash, "face_hash": faceHash}))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return testutil.UnmarshalResponse[handler.FraudResponse](t, rr)
}

func TestDuplicateUseScenario(t *testing.T) {
	testutil.Given(t, "a service with an unreachable durable ledger", func(t *testing.T) {
		router, store := newRouter(t)

		testutil.When(t, "u1 presents H1/F1 and u2 presents H1/F2", func(t *testing.T) {
			first := fraudCheck(t, router, "u1", "H1", "F1")
			second := fraudCheck(t, router, "u2", "H1", "F2")

			testutil.Then(t, "only the second check is flagged for ID reuse", func(t *testing.T) {
				assert.False(t, first.FraudFlag)
				assert.Nil(t, first.Reason)
				assert.True(t, second.FraudFlag)
				require.NotNil(t, second.Reason)
				assert.Equal(t, fraud.ReasonIDReused, *second.Reason)
			})

			testutil.Then(t, "all four records are buffered in memory", func(t *testing.T) {
				assert.Equal(t, 4, store.Buffered())
			})
		})
	})
}

func TestCreditScenario(t *testing.T) {
	testutil.Given(t, "the reference applicant", func(t *testing.T) {
		router, _ := newRouter(t)

		testutil.When(t, "scoring credit for u1", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/score/credit", map[string]any{
				"user_id": "u1", "kyc_valid": true, "income": 5000, "transactions_per_week": 10,
				"fraud_flags": 0, "trust_score": 80,
			}))
			require.Equal(t, http.StatusOK, rr.Code)
			resp := testutil.UnmarshalResponse[handler.CreditResponse](t, rr)

			testutil.Then(t, "the score is 755 Low Risk with a verifiable proof", func(t *testing.T) {
				assert.Equal(t, 755, resp.CreditScore)
				assert.Equal(t, "Low Risk", resp.RiskLabel)

				verify := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/proofs/verify", map[string]any{
					"owner_id":   "u1",
					"kind":       "score",
					"fields":     map[string]any{"credit_score": 755, "risk_label": "Low Risk", "trust_score": 80},
					"proof_hash": resp.ProofHash,
				}))
				out := testutil.UnmarshalResponse[handler.VerifyProofResponse](t, verify)
				assert.True(t, out.Valid)
				assert.Equal(t, resp.ProofHash, out.Computed)
			})
		})
	})
}
