// Package verify holds the step definitions for proof submission. Bundles
// built here are shape-valid but carry unverifiable proof bytes, so they
// exercise every check in front of the cryptographic one.
package verify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

const contractVersion = "v0.1.0"

// TestContext is the slice of the suite context these steps need.
type TestContext interface {
	POST(path string, body any, headers map[string]string) error
	AccessToken() string
}

// RegisterSteps registers the submission steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &verifySteps{tc: tc}

	ctx.Step(`^I submit an? "([^"]*)" bundle dated today$`, steps.submitToday)
	ctx.Step(`^I submit an? "([^"]*)" bundle dated today without a token$`, steps.submitTodayNoToken)
	ctx.Step(`^I submit an? "([^"]*)" bundle dated "([^"]*)"$`, steps.submitDated)
}

type verifySteps struct {
	tc TestContext
}

func (s *verifySteps) submitToday(claimID string) error {
	now := time.Now().UTC()
	return s.submit(claimID, now.Year(), int(now.Month()), now.Day(), true)
}

func (s *verifySteps) submitTodayNoToken(claimID string) error {
	now := time.Now().UTC()
	return s.submit(claimID, now.Year(), int(now.Month()), now.Day(), false)
}

func (s *verifySteps) submitDated(claimID, date string) error {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("feature date %q: %w", date, err)
	}
	return s.submit(claimID, t.Year(), int(t.Month()), t.Day(), true)
}

// submit posts a bundle in the over_18 public input shape:
// [currentYear, currentMonth, currentDay, salt, nullifier, outcome].
func (s *verifySteps) submit(claimID string, year, month, day int, authenticated bool) error {
	body := map[string]any{
		"contract_version": contractVersion,
		"claim_id":         claimID,
		"proof":            []byte("not-a-verifiable-proof"),
		"public_inputs": []string{
			strconv.Itoa(year),
			strconv.Itoa(month),
			strconv.Itoa(day),
			"11",
			"123456789",
			"1",
		},
		"requirement_hash": strings.Repeat("ab", 32),
	}

	var headers map[string]string
	if authenticated {
		headers = map[string]string{
			"Authorization": "Bearer " + s.tc.AccessToken(),
		}
	}
	return s.tc.POST("/v1/verify", body, headers)
}
