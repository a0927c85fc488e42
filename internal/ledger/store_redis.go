package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"attesto/pkg/domain"
	"attesto/pkg/platform/sentinel"
)

// Redis key layout. The marker key is the atomicity primitive: SETNX on it
// decides the single winner. The hash carries the receipt body and the sorted
// set indexes receipts by consumption time for List.
const (
	usedKeyPrefix    = "nul:used:"
	receiptKeyPrefix = "nul:receipt:"
	recencyIndexKey  = "nul:by_time"
)

// RedisStore is a Redis-backed ledger for distributed deployments where
// multiple verifier instances share replay state.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed ledger.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) TryConsume(ctx context.Context, receipt Receipt) error {
	start := time.Now()
	key := usedKeyPrefix + receipt.Nullifier.String()

	// Markers never expire: a consumed nullifier stays consumed.
	won, err := s.client.SetNX(ctx, key, receipt.ID.String(), 0).Result()
	if err != nil {
		observeConsume("redis", start, outcomeError)
		return fmt.Errorf("consume nullifier: %w", err)
	}
	if !won {
		observeConsume("redis", start, outcomeReplay)
		return fmt.Errorf("nullifier already consumed: %w", sentinel.ErrAlreadyUsed)
	}

	// The marker is set; persist the body. If this fails the marker still
	// holds, so a retry reports the nullifier as used rather than double
	// consuming it.
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, receiptKeyPrefix+receipt.Nullifier.String(), map[string]any{
		"receipt_id":       receipt.ID.String(),
		"claim_id":         receipt.ClaimID.String(),
		"requirement_hash": receipt.RequirementHash.String(),
		"consumed_at":      receipt.ConsumedAt.UTC().Format(time.RFC3339Nano),
	})
	pipe.ZAdd(ctx, recencyIndexKey, redis.Z{
		Score:  float64(receipt.ConsumedAt.UnixNano()),
		Member: receipt.Nullifier.String(),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		observeConsume("redis", start, outcomeError)
		return fmt.Errorf("persist receipt: %w", err)
	}
	observeConsume("redis", start, outcomeWon)
	return nil
}

func (s *RedisStore) Find(ctx context.Context, nullifier domain.Nullifier) (*Receipt, error) {
	fields, err := s.client.HGetAll(ctx, receiptKeyPrefix+nullifier.String()).Result()
	if err != nil {
		return nil, fmt.Errorf("find receipt: %w", err)
	}
	if len(fields) == 0 {
		// The marker alone still proves consumption when the body write
		// was cut short.
		if _, err := s.client.Get(ctx, usedKeyPrefix+nullifier.String()).Result(); err != nil {
			if errors.Is(err, redis.Nil) {
				return nil, fmt.Errorf("receipt not found: %w", sentinel.ErrNotFound)
			}
			return nil, fmt.Errorf("find receipt marker: %w", err)
		}
		return &Receipt{Nullifier: nullifier, Used: true}, nil
	}
	return receiptFromFields(nullifier, fields)
}

func (s *RedisStore) List(ctx context.Context, filter Filter) ([]*Receipt, error) {
	limit := filter.effectiveLimit()

	// Over-fetch when filtering by claim since the index is claim-agnostic.
	fetch := int64(limit)
	if len(filter.ClaimIDs) > 0 {
		fetch = int64(MaxListLimit)
	}
	members, err := s.client.ZRevRange(ctx, recencyIndexKey, 0, fetch-1).Result()
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}

	out := make([]*Receipt, 0, len(members))
	for _, member := range members {
		nullifier := domain.Nullifier(member)
		fields, err := s.client.HGetAll(ctx, receiptKeyPrefix+member).Result()
		if err != nil {
			return nil, fmt.Errorf("list receipts body: %w", err)
		}
		if len(fields) == 0 {
			continue
		}
		receipt, err := receiptFromFields(nullifier, fields)
		if err != nil {
			return nil, err
		}
		if !filter.matches(receipt.ClaimID) {
			continue
		}
		out = append(out, receipt)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func receiptFromFields(nullifier domain.Nullifier, fields map[string]string) (*Receipt, error) {
	receiptID, err := uuid.Parse(fields["receipt_id"])
	if err != nil {
		return nil, fmt.Errorf("receipt %s carries bad id %q: %w", nullifier, fields["receipt_id"], err)
	}
	consumedAt, err := time.Parse(time.RFC3339Nano, fields["consumed_at"])
	if err != nil {
		return nil, fmt.Errorf("receipt %s carries bad timestamp %q: %w", nullifier, fields["consumed_at"], err)
	}
	return &Receipt{
		ID:              domain.ReceiptID(receiptID),
		Nullifier:       nullifier,
		ClaimID:         domain.ClaimID(fields["claim_id"]),
		RequirementHash: domain.RequirementHash(fields["requirement_hash"]),
		ConsumedAt:      consumedAt,
		Used:            true,
	}, nil
}
