package testutil

import "testing"

// Given, When and Then name the steps of a flow test as nested subtests, so
// verbose test output reads as a scenario without pulling in a BDD framework.

func Given(t *testing.T, step string, fn func(t *testing.T)) { runStep(t, "Given", step, fn) }

func When(t *testing.T, step string, fn func(t *testing.T)) { runStep(t, "When", step, fn) }

func Then(t *testing.T, step string, fn func(t *testing.T)) { runStep(t, "Then", step, fn) }

func runStep(t *testing.T, word, step string, fn func(t *testing.T)) {
	t.Helper()
	t.Run(word+" "+step, fn)
}
