// Package redis provides Redis-backed implementations of the persistence
// ports for multi-device and multi-replica deployments.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/wellping/wellping-sub000/pkg/domain"
)

// Store implements ports.SessionStore using Redis. Snapshots are stored as
// JSON values, so a save is a single SET: all-or-nothing, never a
// partially written state.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the expiration for stored sessions.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// NewStore creates a Redis session store from an existing client.
func NewStore(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "wellping:session:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(pingID string) string {
	return s.prefix + pingID
}

// Save persists the snapshot as one JSON value.
func (s *Store) Save(ctx context.Context, pingID string, state *domain.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling session state: %w", err)
	}
	if err := s.client.Set(ctx, s.key(pingID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving session to redis: %w", err)
	}
	return nil
}

// Load retrieves and re-parses the snapshot, timestamps included.
func (s *Store) Load(ctx context.Context, pingID string) (*domain.SessionState, error) {
	val, err := s.client.Get(ctx, s.key(pingID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading session from redis: %w", err)
	}
	var state domain.SessionState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return nil, fmt.Errorf("unmarshaling session state: %w", err)
	}
	return &state, nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, pingID string) error {
	return s.client.Del(ctx, s.key(pingID)).Err()
}
