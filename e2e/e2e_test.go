package e2e

import (
	"context"
	"os"
	"testing"

	"github.com/cucumber/godog"
)

// TestFeatures runs the feature files against the server at VERITRUST_URL.
// The server must run with DISABLE_AUTH=false for the bearer scenarios.
func TestFeatures(t *testing.T) {
	baseURL := os.Getenv("VERITRUST_URL")
	if baseURL == "" {
		t.Skip("VERITRUST_URL not set; start the server and point the suite at it")
	}

	suite := godog.TestSuite{
		Name: "veritrust",
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			tc := NewTestContext(baseURL)
			ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
				tc.Reset()
				return ctx, nil
			})
			RegisterSteps(ctx, tc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("feature scenarios failed")
	}
}
