package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"attesto/pkg/domain"
	"attesto/pkg/platform/sentinel"
)

// PostgresStore persists the ledger in PostgreSQL. The nullifier is the
// primary key; INSERT ... ON CONFLICT DO NOTHING is the atomic check-and-set,
// so concurrent submissions of the same nullifier race on the database's
// uniqueness guarantee rather than an application lock.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed ledger.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the ledger table and indexes if absent.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS verification_receipts (
			nullifier        TEXT PRIMARY KEY,
			receipt_id       UUID NOT NULL,
			claim_id         TEXT NOT NULL,
			requirement_hash TEXT NOT NULL,
			consumed_at      TIMESTAMPTZ NOT NULL,
			used             BOOLEAN NOT NULL DEFAULT TRUE
		);
		CREATE INDEX IF NOT EXISTS verification_receipts_claim_recency_idx
			ON verification_receipts (claim_id, consumed_at DESC);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure ledger schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) TryConsume(ctx context.Context, receipt Receipt) error {
	start := time.Now()
	query := `
		INSERT INTO verification_receipts (nullifier, receipt_id, claim_id, requirement_hash, consumed_at, used)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (nullifier) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		receipt.Nullifier.String(),
		uuid.UUID(receipt.ID),
		receipt.ClaimID.String(),
		receipt.RequirementHash.String(),
		receipt.ConsumedAt,
	)
	if err != nil {
		observeConsume("postgres", start, outcomeError)
		return fmt.Errorf("consume nullifier: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		observeConsume("postgres", start, outcomeError)
		return fmt.Errorf("consume nullifier rows affected: %w", err)
	}
	if affected == 0 {
		observeConsume("postgres", start, outcomeReplay)
		return fmt.Errorf("nullifier already consumed: %w", sentinel.ErrAlreadyUsed)
	}
	observeConsume("postgres", start, outcomeWon)
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, nullifier domain.Nullifier) (*Receipt, error) {
	query := `
		SELECT receipt_id, nullifier, claim_id, requirement_hash, consumed_at, used
		FROM verification_receipts
		WHERE nullifier = $1
	`
	receipt, err := scanReceipt(s.db.QueryRowContext(ctx, query, nullifier.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("receipt not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find receipt: %w", err)
	}
	return receipt, nil
}

func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]*Receipt, error) {
	claimIDs := make([]string, 0, len(filter.ClaimIDs))
	for _, id := range filter.ClaimIDs {
		claimIDs = append(claimIDs, id.String())
	}
	query := `
		SELECT receipt_id, nullifier, claim_id, requirement_hash, consumed_at, used
		FROM verification_receipts
		WHERE cardinality($1::text[]) = 0 OR claim_id = ANY($1::text[])
		ORDER BY consumed_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(claimIDs), filter.effectiveLimit())
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var out []*Receipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		out = append(out, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row rowScanner) (*Receipt, error) {
	var (
		receiptID       uuid.UUID
		nullifier       string
		claimID         string
		requirementHash string
		consumedAt      time.Time
		used            bool
	)
	if err := row.Scan(&receiptID, &nullifier, &claimID, &requirementHash, &consumedAt, &used); err != nil {
		return nil, err
	}
	return &Receipt{
		ID:              domain.ReceiptID(receiptID),
		Nullifier:       domain.Nullifier(nullifier),
		ClaimID:         domain.ClaimID(claimID),
		RequirementHash: domain.RequirementHash(requirementHash),
		ConsumedAt:      consumedAt,
		Used:            used,
	}, nil
}
