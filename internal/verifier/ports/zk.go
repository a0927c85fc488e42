// Package ports declares the interfaces the verifier service consumes. They
// match concrete implementations elsewhere but are defined here to maintain
// hexagonal boundaries.
package ports

import (
	"context"
	"math/big"

	"attesto/internal/zk"
	"attesto/pkg/domain"
)

// ProofVerifier checks a proof against a claim's verifying key and ordered
// public inputs.
type ProofVerifier interface {
	// Verify returns (false, nil) when the proof is well-formed but does not
	// verify, and (false, error) only for malformed inputs or infrastructure
	// failures. Callers map the two cases to different outcomes.
	Verify(ctx context.Context, id domain.ClaimID, proofBytes []byte, publicInputs []*big.Int) (bool, error)

	// Info reports the loaded circuit's shape for a claim, for the claim
	// descriptor listing.
	Info(id domain.ClaimID) (zk.Info, bool)
}
