package domain

import dErrors "attesto/pkg/domain-errors"

// ClaimID is a domain value that identifies a registered claim circuit.
// Invariant: lowercase slug, 1-64 characters from [a-z0-9_].
//
// Usage: construct via ParseClaimID at trust boundaries; direct casting
// bypasses validation. Whether an id is actually registered is decided by the
// claim registry, not here, so new claims do not require a domain change.
type ClaimID string

// Well-known claim ids. The registry registers specs under these; circuits
// and handlers reference them by constant, never by literal.
const (
	ClaimOver18              ClaimID = "over_18"
	ClaimNameMatch           ClaimID = "name_match"
	ClaimIdentityAttestation ClaimID = "identity_attestation"
)

// ParseClaimID constructs a ClaimID from external input.
//
// Errors: returns CodeInvalidInput when the value is empty, too long, or
// contains characters outside the slug alphabet.
func ParseClaimID(s string) (ClaimID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "claim id cannot be empty")
	}
	if len(s) > 64 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "claim id must be 64 characters or less")
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return "", dErrors.New(dErrors.CodeInvalidInput, "claim id must match [a-z0-9_]")
		}
	}
	return ClaimID(s), nil
}

// String returns the string representation of the claim id.
func (c ClaimID) String() string {
	return string(c)
}
