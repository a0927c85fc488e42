// Package token holds the step definitions for the credential exchange.
package token

import (
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext is the slice of the suite context these steps need.
type TestContext interface {
	POST(path string, body any, headers map[string]string) error
	LastStatus() int
	ResponseField(name string) (any, bool)
	SetAccessToken(token string)
	Describe() string
}

// RegisterSteps registers the credential exchange steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &tokenSteps{tc: tc}

	ctx.Step(`^I exchange credentials for party "([^"]*)" with secret "([^"]*)"$`, steps.exchange)
	ctx.Step(`^I hold an access token for party "([^"]*)" with secret "([^"]*)"$`, steps.holdToken)
}

type tokenSteps struct {
	tc TestContext
}

func (s *tokenSteps) exchange(partyID, secret string) error {
	return s.tc.POST("/v1/token", map[string]string{
		"party_id":     partyID,
		"party_secret": secret,
	}, nil)
}

// holdToken performs the exchange and stores the token for later steps.
func (s *tokenSteps) holdToken(partyID, secret string) error {
	if err := s.exchange(partyID, secret); err != nil {
		return err
	}
	if s.tc.LastStatus() != 200 {
		return fmt.Errorf("credential exchange failed: %s", s.tc.Describe())
	}
	v, ok := s.tc.ResponseField("access_token")
	if !ok {
		return fmt.Errorf("no access_token in response: %s", s.tc.Describe())
	}
	token, ok := v.(string)
	if !ok || token == "" {
		return fmt.Errorf("access_token is not a usable string: %v", v)
	}
	s.tc.SetAccessToken(token)
	return nil
}
