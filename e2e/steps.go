package e2e

import (
	"github.com/cucumber/godog"

	"veritrust/e2e/steps/common"
	"veritrust/e2e/steps/verification"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	verification.RegisterSteps(ctx, &recordsAdapter{tc})
}

// recordsAdapter converts records to the shape the verification steps use,
// keeping the step packages free of this package's types.
type recordsAdapter struct {
	*TestContext
}

func (a *recordsAdapter) LoadRecords() ([]verification.Record, error) {
	recs, err := a.TestContext.LoadRecords()
	if err != nil {
		return nil, err
	}
	out := make([]verification.Record, len(recs))
	for i, r := range recs {
		out[i] = verification.Record{OwnerID: r.OwnerID, Kind: r.Kind, Fields: r.Fields, ProofHash: r.ProofHash}
	}
	return out, nil
}
