package e2e

import (
	"github.com/cucumber/godog"

	"github.com/impierce/ssi-agent-sub000/e2e/steps/common"
	"github.com/impierce/ssi-agent-sub000/e2e/steps/holder"
	"github.com/impierce/ssi-agent-sub000/e2e/steps/issuance"
	"github.com/impierce/ssi-agent-sub000/e2e/steps/verification"
)

// RegisterSteps registers all step definitions from the modular packages.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background, generic requests and assertions.
	common.RegisterSteps(ctx, tc)

	// Issuer-side pre-authorized code flow.
	issuance.RegisterSteps(ctx, tc)

	// Holder-side offer lifecycle.
	holder.RegisterSteps(ctx, tc)

	// Verifier-side authorization requests and wallet responses.
	verification.RegisterSteps(ctx, tc)
}
