package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local sliding-window store. Counts do not survive
// a restart and are not shared across instances; distributed deployments use
// RedisStore instead.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window

	now func() time.Time
}

// window holds the admission timestamps still inside the sliding window.
type window struct {
	admitted []time.Time
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (s *MemoryStore) Allow(_ context.Context, key string, limit Limit) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w := s.windows[key]
	if w == nil {
		w = &window{}
		s.windows[key] = w
	}
	w.prune(now.Add(-limit.Window))

	if len(w.admitted) >= limit.Requests {
		// The oldest admitted request leaving the window frees the next slot.
		return Result{
			Allowed:   false,
			Limit:     limit.Requests,
			Remaining: 0,
			ResetAt:   w.admitted[0].Add(limit.Window),
		}, nil
	}

	w.admitted = append(w.admitted, now)
	return Result{
		Allowed:   true,
		Limit:     limit.Requests,
		Remaining: limit.Requests - len(w.admitted),
		ResetAt:   w.admitted[0].Add(limit.Window),
	}, nil
}

// prune drops admissions at or before the cutoff. Timestamps are appended in
// order, so everything after the first survivor survives too.
func (w *window) prune(cutoff time.Time) {
	i := 0
	for ; i < len(w.admitted); i++ {
		if w.admitted[i].After(cutoff) {
			break
		}
	}
	w.admitted = w.admitted[i:]
}
