package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wellping/wellping-sub000/pkg/domain"
)

// Queue implements ports.FollowupQueue in memory.
// Safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	entries []domain.FollowupEntry
}

// NewQueue creates a new in-memory follow-up queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Entries returns the queued stream-starts, soonest first.
func (q *Queue) Entries(ctx context.Context) ([]domain.FollowupEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.FollowupEntry, len(q.entries))
	copy(out, q.entries)
	return out, nil
}

// Enqueue appends one deferred stream-start, keeping the queue ordered by
// delivery time.
func (q *Queue) Enqueue(ctx context.Context, entry domain.FollowupEntry) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, entry)
	sort.Slice(q.entries, func(i, j int) bool {
		return q.entries[i].DeliverAfter.Before(q.entries[j].DeliverAfter)
	})
	return nil
}

// DequeueDue removes and returns the first entry due at or before now.
func (q *Queue) DequeueDue(ctx context.Context, now time.Time) (*domain.FollowupEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 || q.entries[0].DeliverAfter.After(now) {
		return nil, nil
	}
	entry := q.entries[0]
	q.entries = q.entries[1:]
	return &entry, nil
}
