package ports

import (
	"context"

	"github.com/wellping/wellping-sub000/pkg/domain"
)

// SessionStore persists per-ping traversal snapshots. Saves are
// all-or-nothing: a failed Save must leave the previously stored snapshot
// intact, never a partially written one.
type SessionStore interface {
	// Save persists the snapshot for a ping.
	Save(ctx context.Context, pingID string, state *domain.SessionState) error

	// Load retrieves the snapshot for a ping.
	// Returns domain.ErrSessionNotFound if no snapshot exists.
	Load(ctx context.Context, pingID string) (*domain.SessionState, error)

	// Delete removes the snapshot once the ping is finished.
	Delete(ctx context.Context, pingID string) error
}
