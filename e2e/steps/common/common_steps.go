// Package common holds the step definitions every feature shares: plain
// requests and response assertions.
package common

import (
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext is the slice of the suite context these steps need.
type TestContext interface {
	GET(path string, headers map[string]string) error
	LastStatus() int
	ResponseField(name string) (any, bool)
	AccessToken() string
	Describe() string
}

// RegisterSteps registers the shared request and assertion steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^I GET "([^"]*)"$`, steps.get)
	ctx.Step(`^I GET "([^"]*)" with the access token$`, steps.getAuthenticated)
	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.fieldShouldEqual)
	ctx.Step(`^the response should contain field "([^"]*)"$`, steps.shouldContainField)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) get(path string) error {
	return s.tc.GET(path, nil)
}

func (s *commonSteps) getAuthenticated(path string) error {
	return s.tc.GET(path, map[string]string{
		"Authorization": "Bearer " + s.tc.AccessToken(),
	})
}

func (s *commonSteps) statusShouldBe(expected int) error {
	if s.tc.LastStatus() != expected {
		return fmt.Errorf("expected status %d, got %s", expected, s.tc.Describe())
	}
	return nil
}

func (s *commonSteps) fieldShouldEqual(name, expected string) error {
	v, ok := s.tc.ResponseField(name)
	if !ok {
		return fmt.Errorf("response has no field %q: %s", name, s.tc.Describe())
	}
	if fmt.Sprint(v) != expected {
		return fmt.Errorf("field %q = %v, expected %q", name, v, expected)
	}
	return nil
}

func (s *commonSteps) shouldContainField(name string) error {
	if _, ok := s.tc.ResponseField(name); !ok {
		return fmt.Errorf("response has no field %q: %s", name, s.tc.Describe())
	}
	return nil
}
