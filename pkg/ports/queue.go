package ports

import (
	"context"
	"time"

	"github.com/wellping/wellping-sub000/pkg/domain"
)

// FollowupQueue is the shared, persisted queue of deferred stream-starts.
// It is a single read-modify-write resource with an assumed single writer;
// the engine never enqueues concurrently for the same participant.
type FollowupQueue interface {
	// Entries returns the queued stream-starts, soonest first.
	Entries(ctx context.Context) ([]domain.FollowupEntry, error)

	// Enqueue appends one deferred stream-start.
	Enqueue(ctx context.Context, entry domain.FollowupEntry) error

	// DequeueDue removes and returns the first entry due at or before now,
	// or nil when none is due.
	DequeueDue(ctx context.Context, now time.Time) (*domain.FollowupEntry, error)
}
