package ledger

import (
	"context"
	"encoding/binary"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"attesto/pkg/domain"
	"attesto/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) SetupSubTest() {
	s.SetupTest()
}

func testReceipt(n domain.Nullifier, claimID domain.ClaimID, consumedAt time.Time) Receipt {
	return Receipt{
		ID:              domain.NewReceiptID(),
		Nullifier:       n,
		ClaimID:         claimID,
		RequirementHash: domain.RequirementHashFromBytes([]byte("requirement")),
		ConsumedAt:      consumedAt,
		Used:            true,
	}
}

func nullifierN(n byte) domain.Nullifier {
	return domain.NullifierFromBytes([]byte{0xa7, n})
}

func (s *MemoryStoreSuite) TestTryConsume() {
	s.Run("fresh nullifier is consumed", func() {
		receipt := testReceipt(nullifierN(1), domain.ClaimOver18, time.Now())
		s.Require().NoError(s.store.TryConsume(s.ctx, receipt))

		found, err := s.store.Find(s.ctx, receipt.Nullifier)
		s.Require().NoError(err)
		s.Equal(receipt.ID, found.ID)
		s.True(found.Used)
	})

	s.Run("replay returns ErrAlreadyUsed and keeps the original receipt", func() {
		first := testReceipt(nullifierN(2), domain.ClaimOver18, time.Now())
		s.Require().NoError(s.store.TryConsume(s.ctx, first))

		replay := testReceipt(nullifierN(2), domain.ClaimOver18, time.Now().Add(time.Second))
		err := s.store.TryConsume(s.ctx, replay)
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)

		// The losing attempt must not overwrite the winner's receipt.
		found, err := s.store.Find(s.ctx, first.Nullifier)
		s.Require().NoError(err)
		s.Equal(first.ID, found.ID)
		s.True(found.Used)

		all, err := s.store.List(s.ctx, Filter{})
		s.Require().NoError(err)
		s.Len(all, 1)
	})

	s.Run("distinct nullifiers consume independently", func() {
		store := NewMemory()
		s.Require().NoError(store.TryConsume(s.ctx, testReceipt(nullifierN(3), domain.ClaimOver18, time.Now())))
		s.Require().NoError(store.TryConsume(s.ctx, testReceipt(nullifierN(4), domain.ClaimNameMatch, time.Now())))

		all, err := store.List(s.ctx, Filter{})
		s.Require().NoError(err)
		s.Len(all, 2)
	})
}

func (s *MemoryStoreSuite) TestFind() {
	s.Run("returns ErrNotFound for unconsumed nullifier", func() {
		_, err := s.store.Find(s.ctx, nullifierN(9))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned receipt is a copy", func() {
		receipt := testReceipt(nullifierN(10), domain.ClaimOver18, time.Now())
		s.Require().NoError(s.store.TryConsume(s.ctx, receipt))

		found, err := s.store.Find(s.ctx, receipt.Nullifier)
		s.Require().NoError(err)
		found.Used = false
		found.ClaimID = domain.ClaimNameMatch

		again, err := s.store.Find(s.ctx, receipt.Nullifier)
		s.Require().NoError(err)
		s.True(again.Used)
		s.Equal(domain.ClaimOver18, again.ClaimID)
	})
}

func (s *MemoryStoreSuite) TestList() {
	base := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)

	seed := func() *MemoryStore {
		store := NewMemory()
		s.Require().NoError(store.TryConsume(s.ctx, testReceipt(nullifierN(20), domain.ClaimOver18, base)))
		s.Require().NoError(store.TryConsume(s.ctx, testReceipt(nullifierN(21), domain.ClaimNameMatch, base.Add(time.Minute))))
		s.Require().NoError(store.TryConsume(s.ctx, testReceipt(nullifierN(22), domain.ClaimOver18, base.Add(2*time.Minute))))
		return store
	}

	s.Run("orders newest first", func() {
		all, err := seed().List(s.ctx, Filter{})
		s.Require().NoError(err)
		s.Require().Len(all, 3)
		s.Equal(nullifierN(22), all[0].Nullifier)
		s.Equal(nullifierN(21), all[1].Nullifier)
		s.Equal(nullifierN(20), all[2].Nullifier)
	})

	s.Run("filters by claim id", func() {
		matched, err := seed().List(s.ctx, Filter{ClaimIDs: []domain.ClaimID{domain.ClaimOver18}})
		s.Require().NoError(err)
		s.Require().Len(matched, 2)
		for _, r := range matched {
			s.Equal(domain.ClaimOver18, r.ClaimID)
		}
	})

	s.Run("applies the limit after ordering", func() {
		page, err := seed().List(s.ctx, Filter{Limit: 1})
		s.Require().NoError(err)
		s.Require().Len(page, 1)
		s.Equal(nullifierN(22), page[0].Nullifier)
	})

	s.Run("caps the limit", func() {
		f := Filter{Limit: MaxListLimit + 1}
		s.Equal(MaxListLimit, f.effectiveLimit())
	})

	s.Run("empty store lists empty", func() {
		all, err := s.store.List(s.ctx, Filter{})
		s.Require().NoError(err)
		s.Empty(all)
	})
}

func (s *MemoryStoreSuite) TestConcurrentConsume() {
	s.Run("exactly one winner per nullifier", func() {
		store := NewMemory()
		nullifier := nullifierN(30)
		var wg sync.WaitGroup
		var mu sync.Mutex
		winners := 0
		replays := 0

		for range 200 {
			wg.Go(func() {
				err := store.TryConsume(s.ctx, testReceipt(nullifier, domain.ClaimOver18, time.Now()))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					winners++
				default:
					s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
					replays++
				}
			})
		}
		wg.Wait()

		s.Equal(1, winners)
		s.Equal(199, replays)

		all, err := store.List(s.ctx, Filter{})
		s.Require().NoError(err)
		s.Len(all, 1)
	})

	s.Run("distinct nullifiers all win under contention", func() {
		store := NewMemory()
		var wg sync.WaitGroup
		for i := range 100 {
			n := domain.NullifierFromBytes([]byte{0xb0, byte(i)})
			wg.Go(func() {
				s.Require().NoError(store.TryConsume(s.ctx, testReceipt(n, domain.ClaimOver18, time.Now())))
			})
		}
		wg.Wait()

		all, err := store.List(s.ctx, Filter{Limit: MaxListLimit})
		s.Require().NoError(err)
		s.Len(all, 100)
	})
}

func BenchmarkMemoryTryConsume(b *testing.B) {
	store := NewMemory()
	ctx := context.Background()
	var seq atomic.Uint64

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := seq.Add(1)
			n := domain.NullifierFromBytes(binary.BigEndian.AppendUint64(nil, i))
			_ = store.TryConsume(ctx, Receipt{
				ID:         domain.NewReceiptID(),
				Nullifier:  n,
				ClaimID:    domain.ClaimOver18,
				ConsumedAt: time.Now(),
				Used:       true,
			})
		}
	})
}
