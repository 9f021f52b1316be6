// Package memory provides in-memory implementations of the persistence
// ports, used by tests and the interactive CLI.
package memory

import (
	"context"
	"sync"

	"github.com/wellping/wellping-sub000/pkg/domain"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]*domain.SessionState
}

// NewStore creates a new in-memory session store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.SessionState),
	}
}

// Save persists a deep copy of the snapshot, so later mutations by the
// caller never leak into the stored state.
func (s *Store) Save(ctx context.Context, pingID string, state *domain.SessionState) error {
	copied := state.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[pingID] = copied
	return nil
}

// Load retrieves a deep copy of the stored snapshot.
func (s *Store) Load(ctx context.Context, pingID string) (*domain.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.data[pingID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return state.Clone(), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, pingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, pingID)
	return nil
}

// List returns the ids of all stored sessions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
