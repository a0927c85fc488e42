package e2e

import (
	"github.com/cucumber/godog"

	"attesto/e2e/steps/common"
	"attesto/e2e/steps/token"
	"attesto/e2e/steps/verify"
)

// RegisterSteps registers all step definitions from the modular packages.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	token.RegisterSteps(ctx, tc)
	verify.RegisterSteps(ctx, tc)
}
