package party

import (
	"context"
	"fmt"
	"sync"

	"attesto/pkg/domain"
	"attesto/pkg/platform/sentinel"
)

// Store is the party lookup the token endpoint depends on.
//
// Error contract:
//   - FindByID returns an error wrapping sentinel.ErrNotFound for unknown ids
//   - Register returns an error wrapping sentinel.ErrAlreadyUsed for
//     duplicate ids
type Store interface {
	FindByID(ctx context.Context, id domain.PartyID) (*Party, error)
	Register(ctx context.Context, p *Party) error
}

// MemoryStore holds party registrations in memory. Registrations happen once
// at startup from configuration; afterwards the store is read-only in
// practice, but Register stays safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	parties map[domain.PartyID]*Party
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{parties: make(map[domain.PartyID]*Party)}
}

func (s *MemoryStore) Register(_ context.Context, p *Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.parties[p.ID]; ok {
		return fmt.Errorf("party %s already registered: %w", p.ID, sentinel.ErrAlreadyUsed)
	}
	copied := *p
	s.parties[p.ID] = &copied
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id domain.PartyID) (*Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.parties[id]
	if !ok {
		return nil, fmt.Errorf("party %s: %w", id, sentinel.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}
