package e2e

import (
	"os"
	"testing"

	"github.com/cucumber/godog"
)

// The suite runs against a live agent. Point SSI_AGENT_E2E_URL at its base
// URL, for example http://localhost:3033.
func TestFeatures(t *testing.T) {
	baseURL := os.Getenv("SSI_AGENT_E2E_URL")
	if baseURL == "" {
		t.Skip("SSI_AGENT_E2E_URL not set, skipping end-to-end suite")
	}

	suite := godog.TestSuite{
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			tc, err := NewTestContext(baseURL)
			if err != nil {
				t.Fatalf("scenario context: %v", err)
			}
			RegisterSteps(ctx, tc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
			Strict:   true,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("end-to-end suite failed")
	}
}
