// Package audit emits verification events for the compliance stream. Every
// terminal verification outcome produces exactly one event, acceptance and
// rejection alike, keyed on the nullifier so downstream consumers can
// reconstruct replay attempts.
package audit

import (
	"time"

	"attesto/contracts/attestation"
	"attesto/pkg/domain"
)

// Event is emitted from the verifier to capture a terminal outcome. Keep it
// transport-agnostic so sinks can fan out. IdentityRef names the relying
// party that submitted the bundle; no holder attribute ever appears here.
type Event struct {
	EventID         domain.EventID
	IdentityRef     string
	ClaimID         domain.ClaimID
	RequirementHash domain.RequirementHash
	Nullifier       domain.Nullifier
	Timestamp       time.Time
	Accepted        bool
	Reason          string
	RequestID       string
}

// ToContract converts the event to its wire DTO.
func (e Event) ToContract() attestation.VerificationEvent {
	return attestation.VerificationEvent{
		ContractVersion: attestation.ContractVersion,
		IdentityRef:     e.IdentityRef,
		ClaimID:         e.ClaimID.String(),
		RequirementHash: e.RequirementHash.String(),
		Nullifier:       e.Nullifier.String(),
		Timestamp:       e.Timestamp.UTC().Format(time.RFC3339Nano),
		Accepted:        e.Accepted,
		Reason:          e.Reason,
	}
}
