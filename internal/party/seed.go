package party

import (
	"context"
	"fmt"
	"time"

	"attesto/pkg/domain"

	"attesto/internal/party/secrets"
)

// Development credentials seeded when no parties are configured. Never
// provision these in a real deployment.
const (
	DevPartyID     = "dev-party"
	DevPartySecret = "dev-party-secret"
)

// Credential is a provisioned party credential as it appears in
// configuration: the party id and the bcrypt hash of its secret.
type Credential struct {
	ID         string
	SecretHash string
}

// Seed registers the configured parties. Configuration errors (bad ids,
// duplicates, empty hashes) fail startup rather than silently skipping a
// party.
func Seed(ctx context.Context, store Store, creds []Credential, now time.Time) (int, error) {
	for _, c := range creds {
		id, err := domain.ParsePartyID(c.ID)
		if err != nil {
			return 0, fmt.Errorf("configured party %q: %w", c.ID, err)
		}
		p, err := New(id, id.String(), c.SecretHash, now)
		if err != nil {
			return 0, fmt.Errorf("configured party %q: %w", c.ID, err)
		}
		if err := store.Register(ctx, p); err != nil {
			return 0, fmt.Errorf("configured party %q: %w", c.ID, err)
		}
	}
	return len(creds), nil
}

// SeedDev registers the fixed development party. Meant for local runs where
// no ATTESTO_PARTIES are configured; the caller should log loudly that it
// happened.
func SeedDev(ctx context.Context, store Store, now time.Time) (*Party, error) {
	hash, err := secrets.Hash(DevPartySecret)
	if err != nil {
		return nil, err
	}
	p, err := New(DevPartyID, "development party", hash, now)
	if err != nil {
		return nil, err
	}
	if err := store.Register(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
