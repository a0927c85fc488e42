// Package sentinel declares the errors stores return to report facts
// about stored state. Services match them with errors.Is and translate
// them into domain errors; anything a store returns that is not one of
// these is an infrastructure failure and gets wrapped as unavailability.
package sentinel

import "errors"

var (
	// ErrNotFound reports that no record exists for the given key.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyUsed reports that a one-shot resource, such as a
	// nullifier or a party id, was consumed by an earlier write.
	ErrAlreadyUsed = errors.New("already used")
)
