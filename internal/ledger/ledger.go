// Package ledger persists consumed nullifiers. A nullifier is consumed at
// most once, ever: TryConsume is the atomic check-and-set that decides the
// single winner under concurrent submission, and a stored receipt's Used flag
// never transitions back to false.
package ledger

import (
	"context"
	"time"

	"attesto/pkg/domain"
)

// Error Contract:
// All store methods follow this error pattern:
// - TryConsume returns sentinel.ErrAlreadyUsed when the nullifier was consumed before
// - Find returns sentinel.ErrNotFound when no receipt exists for the nullifier
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// Receipt is the persisted record of a consumed nullifier. It carries no
// holder attributes: the nullifier, the claim, and the requirement context
// are everything a relying party may learn.
type Receipt struct {
	ID              domain.ReceiptID
	Nullifier       domain.Nullifier
	ClaimID         domain.ClaimID
	RequirementHash domain.RequirementHash
	ConsumedAt      time.Time
	Used            bool
}

// Filter narrows List results. A zero Filter lists the most recent receipts
// across all claims.
type Filter struct {
	ClaimIDs []domain.ClaimID
	Limit    int
}

// List limits. Callers asking for more than MaxListLimit get MaxListLimit.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

func (f Filter) effectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return f.Limit
	}
}

func (f Filter) matches(claimID domain.ClaimID) bool {
	if len(f.ClaimIDs) == 0 {
		return true
	}
	for _, id := range f.ClaimIDs {
		if id == claimID {
			return true
		}
	}
	return false
}

// Store is the nullifier ledger. Implementations must make TryConsume atomic
// per nullifier without serializing operations on distinct nullifiers.
type Store interface {
	// TryConsume records the receipt if its nullifier was never consumed.
	// Exactly one concurrent caller wins; the others get ErrAlreadyUsed.
	TryConsume(ctx context.Context, receipt Receipt) error

	// Find returns the receipt for a nullifier.
	Find(ctx context.Context, nullifier domain.Nullifier) (*Receipt, error)

	// List returns receipts ordered by consumption time, newest first.
	List(ctx context.Context, filter Filter) ([]*Receipt, error)
}
