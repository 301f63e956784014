package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/cucumber/godog"
)

var proofPattern = regexp.MustCompile(`^0x[0-9a-f]{64}$`)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GET(path string) error
	StatusCode() int
	ResponseBody() []byte
	GetResponseField(field string) (interface{}, error)
	Scoped(name string) string
	LoadRecords() ([]Record, error)
}

// Record is a listed ledger record.
type Record struct {
	OwnerID   string
	Kind      string
	Fields    json.RawMessage
	ProofHash string
}

// RegisterSteps registers verification, fraud and ledger step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &verificationSteps{tc: tc}

	ctx.Step(`^user "([^"]*)" verifies their face with ID image "([^"]*)" and selfie "([^"]*)"$`, steps.verifyFace)
	ctx.Step(`^user "([^"]*)" verifies document "([^"]*)" expecting name "([^"]*)"$`, steps.verifyDocument)
	ctx.Step(`^user "([^"]*)" requests a credit score with kyc (valid|invalid), income (\d+), (\d+) transactions per week, (\d+) fraud flags and trust score (\d+)$`, steps.scoreCredit)
	ctx.Step(`^user "([^"]*)" submits a fraud check with ID hash "([^"]*)" and face hash "([^"]*)"$`, steps.checkFraud)

	ctx.Step(`^the response should carry a proof hash$`, steps.responseCarriesProof)
	ctx.Step(`^I list the ledger records of user "([^"]*)"$`, steps.listRecords)
	ctx.Step(`^there should be (\d+) listed records?$`, steps.listedRecordCount)
	ctx.Step(`^there should be a listed "([^"]*)" record$`, steps.listedRecordOfKind)
	ctx.Step(`^every listed proof should verify$`, steps.everyProofVerifies)
	ctx.Step(`^no listed proof should verify for user "([^"]*)"$`, steps.noProofVerifiesFor)
}

type verificationSteps struct {
	tc     TestContext
	listed []Record
}

func (s *verificationSteps) verifyFace(ctx context.Context, user, idImage, selfie string) error {
	return s.tc.POST("/verify/face", map[string]interface{}{
		"user_id":      s.tc.Scoped(user),
		"id_image_url": idImage,
		"selfie_url":   selfie,
	})
}

func (s *verificationSteps) verifyDocument(ctx context.Context, user, docURL, name string) error {
	return s.tc.POST("/verify/document", map[string]interface{}{
		"user_id":       s.tc.Scoped(user),
		"doc_url":       docURL,
		"expected_name": name,
	})
}

func (s *verificationSteps) scoreCredit(ctx context.Context, user, kyc string, income, tx, flags, trust int) error {
	return s.tc.POST("/score/credit", map[string]interface{}{
		"user_id":               s.tc.Scoped(user),
		"kyc_valid":             kyc == "valid",
		"income":                income,
		"transactions_per_week": tx,
		"fraud_flags":           flags,
		"trust_score":           trust,
	})
}

func (s *verificationSteps) checkFraud(ctx context.Context, user, idHash, faceHash string) error {
	return s.tc.POST("/fraud/check", map[string]interface{}{
		"user_id":   s.tc.Scoped(user),
		"id_hash":   s.tc.Scoped(idHash),
		"face_hash": s.tc.Scoped(faceHash),
	})
}

func (s *verificationSteps) responseCarriesProof(ctx context.Context) error {
	v, err := s.tc.GetResponseField("proof_hash")
	if err != nil {
		return err
	}
	if h, ok := v.(string); !ok || !proofPattern.MatchString(h) {
		return fmt.Errorf("malformed proof hash %v", v)
	}
	return nil
}

func (s *verificationSteps) listRecords(ctx context.Context, user string) error {
	if err := s.tc.GET("/users/" + s.tc.Scoped(user) + "/records"); err != nil {
		return err
	}
	if s.tc.StatusCode() != 200 {
		return fmt.Errorf("listing records failed with %d: %s", s.tc.StatusCode(), s.tc.ResponseBody())
	}
	recs, err := s.tc.LoadRecords()
	if err != nil {
		return err
	}
	s.listed = recs
	return nil
}

func (s *verificationSteps) listedRecordCount(ctx context.Context, n int) error {
	if len(s.listed) != n {
		return fmt.Errorf("expected %d records, got %d", n, len(s.listed))
	}
	return nil
}

func (s *verificationSteps) listedRecordOfKind(ctx context.Context, kind string) error {
	for _, r := range s.listed {
		if r.Kind == kind {
			return nil
		}
	}
	return fmt.Errorf("no %q record among %d listed", kind, len(s.listed))
}

func (s *verificationSteps) everyProofVerifies(ctx context.Context) error {
	return s.verifyListed(func(r Record) string { return r.OwnerID }, true)
}

func (s *verificationSteps) noProofVerifiesFor(ctx context.Context, user string) error {
	other := s.tc.Scoped(user)
	return s.verifyListed(func(Record) string { return other }, false)
}

// verifyListed resubmits every proven record, optionally under another
// owner, and checks the verdict.
func (s *verificationSteps) verifyListed(owner func(Record) string, want bool) error {
	checked := 0
	for _, r := range s.listed {
		if r.ProofHash == "" {
			continue
		}
		err := s.tc.POST("/proofs/verify", map[string]interface{}{
			"owner_id":   owner(r),
			"kind":       r.Kind,
			"fields":     r.Fields,
			"proof_hash": r.ProofHash,
		})
		if err != nil {
			return err
		}
		valid, err := s.tc.GetResponseField("valid")
		if err != nil {
			return err
		}
		if valid != want {
			return fmt.Errorf("%s proof %s: expected valid=%v, got %v", r.Kind, r.ProofHash, want, valid)
		}
		checked++
	}
	if checked == 0 {
		return fmt.Errorf("no proven records were listed")
	}
	return nil
}
