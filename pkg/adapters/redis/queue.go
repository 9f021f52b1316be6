package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/wellping/wellping-sub000/pkg/domain"
)

// Queue implements ports.FollowupQueue on a Redis sorted set scored by
// delivery time. It is a shared read-modify-write resource; the engine
// assumes a single writer per participant.
type Queue struct {
	client *backend.Client
	key    string
}

// NewQueue creates a follow-up queue for one participant key.
func NewQueue(client *backend.Client, participant string) *Queue {
	return &Queue{
		client: client,
		key:    "wellping:followups:" + participant,
	}
}

// Entries returns the queued stream-starts, soonest first.
func (q *Queue) Entries(ctx context.Context) ([]domain.FollowupEntry, error) {
	members, err := q.client.ZRange(ctx, q.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading followup queue: %w", err)
	}
	out := make([]domain.FollowupEntry, 0, len(members))
	for _, raw := range members {
		var entry domain.FollowupEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("unmarshaling followup entry: %w", err)
		}
		out = append(out, entry)
	}
	return out, nil
}

// Enqueue appends one deferred stream-start.
func (q *Queue) Enqueue(ctx context.Context, entry domain.FollowupEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling followup entry: %w", err)
	}
	member := backend.Z{
		Score:  float64(entry.DeliverAfter.Unix()),
		Member: string(data),
	}
	if err := q.client.ZAdd(ctx, q.key, member).Err(); err != nil {
		return fmt.Errorf("enqueueing followup entry: %w", err)
	}
	return nil
}

// DequeueDue removes and returns the first entry due at or before now.
func (q *Queue) DequeueDue(ctx context.Context, now time.Time) (*domain.FollowupEntry, error) {
	members, err := q.client.ZRangeByScore(ctx, q.key, &backend.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: 1,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("reading due followup entries: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}
	if err := q.client.ZRem(ctx, q.key, members[0]).Err(); err != nil {
		return nil, fmt.Errorf("removing due followup entry: %w", err)
	}
	var entry domain.FollowupEntry
	if err := json.Unmarshal([]byte(members[0]), &entry); err != nil {
		return nil, fmt.Errorf("unmarshaling followup entry: %w", err)
	}
	return &entry, nil
}
