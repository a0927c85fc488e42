package ports

import (
	"context"

	"attesto/internal/ledger"
	"attesto/pkg/domain"
)

// NullifierLedger records consumed nullifiers. TryConsume is atomic per
// nullifier: exactly one caller wins, all others see the already-used error.
type NullifierLedger interface {
	TryConsume(ctx context.Context, receipt ledger.Receipt) error
	Find(ctx context.Context, nullifier domain.Nullifier) (*ledger.Receipt, error)
	List(ctx context.Context, filter ledger.Filter) ([]*ledger.Receipt, error)
}
