package ledger

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"attesto/pkg/domain"
	"attesto/pkg/platform/sentinel"
)

// shardCount spreads nullifiers across independent locks so concurrent
// consumes of distinct nullifiers never contend. Power of two keeps the
// modulo cheap.
const shardCount = 64

// MemoryStore keeps the ledger in process memory for tests and single-node
// development. Receipts are sharded by nullifier; each shard holds its own
// lock, so there is no global serialization point.
type MemoryStore struct {
	shards [shardCount]memoryShard
}

type memoryShard struct {
	mu       sync.RWMutex
	receipts map[domain.Nullifier]Receipt
}

// NewMemory constructs an empty in-memory ledger.
func NewMemory() *MemoryStore {
	s := &MemoryStore{}
	for i := range s.shards {
		s.shards[i].receipts = make(map[domain.Nullifier]Receipt)
	}
	return s
}

func (s *MemoryStore) shard(n domain.Nullifier) *memoryShard {
	h := fnv.New32a()
	h.Write([]byte(n.String()))
	return &s.shards[h.Sum32()%shardCount]
}

func (s *MemoryStore) TryConsume(_ context.Context, receipt Receipt) error {
	start := time.Now()
	sh := s.shard(receipt.Nullifier)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, exists := sh.receipts[receipt.Nullifier]; exists {
		observeConsume("memory", start, outcomeReplay)
		return fmt.Errorf("nullifier already consumed: %w", sentinel.ErrAlreadyUsed)
	}
	receipt.Used = true
	sh.receipts[receipt.Nullifier] = receipt
	observeConsume("memory", start, outcomeWon)
	return nil
}

func (s *MemoryStore) Find(_ context.Context, nullifier domain.Nullifier) (*Receipt, error) {
	sh := s.shard(nullifier)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	receipt, ok := sh.receipts[nullifier]
	if !ok {
		return nil, fmt.Errorf("receipt not found: %w", sentinel.ErrNotFound)
	}
	// Callers get a copy; stored receipts are immutable once written.
	return &receipt, nil
}

func (s *MemoryStore) List(_ context.Context, filter Filter) ([]*Receipt, error) {
	var out []*Receipt
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		for _, receipt := range sh.receipts {
			if filter.matches(receipt.ClaimID) {
				r := receipt
				out = append(out, &r)
			}
		}
		sh.mu.RUnlock()
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ConsumedAt.After(out[j].ConsumedAt)
	})
	if limit := filter.effectiveLimit(); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
