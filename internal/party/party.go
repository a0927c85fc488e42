// Package party manages the relying parties allowed to call the verification
// API: their provisioned credentials and the access tokens they exchange them
// for. The authenticated party id becomes the identityRef on audit events, so
// every terminal verification outcome is attributable to a registered caller.
package party

import (
	"time"

	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
)

// Status is the lifecycle state of a party registration.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Party is a registered relying party.
//
// Invariants:
//   - ID is a parsed domain.PartyID
//   - SecretHash is a bcrypt hash, never the plaintext secret
//   - Status is active or inactive
type Party struct {
	ID         domain.PartyID `json:"id"`
	Name       string         `json:"name"`
	SecretHash string         `json:"-"`
	Status     Status         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}

// New constructs an active party registration.
func New(id domain.PartyID, name, secretHash string, now time.Time) (*Party, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "party name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "party name must be 128 characters or less")
	}
	if secretHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "party secret hash cannot be empty")
	}
	return &Party{
		ID:         id,
		Name:       name,
		SecretHash: secretHash,
		Status:     StatusActive,
		CreatedAt:  now,
	}, nil
}

func (p *Party) IsActive() bool {
	return p.Status == StatusActive
}
