package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	backend "github.com/redis/go-redis/v9"

	"github.com/wellping/wellping-sub000/pkg/domain"
)

// Ledger implements ports.AnswerStore using one Redis hash per ping,
// fields keyed by resolved question id. HSET overwrite semantics match the
// ledger contract: later writes to the same key replace.
type Ledger struct {
	client *backend.Client
	prefix string
}

// NewLedger creates a Redis answer ledger from an existing client.
func NewLedger(client *backend.Client) *Ledger {
	return &Ledger{client: client, prefix: "wellping:answers:"}
}

func (l *Ledger) key(pingID string) string {
	return l.prefix + pingID
}

// Record creates or overwrites the answer at its resolved id.
func (l *Ledger) Record(ctx context.Context, pingID string, answer *domain.Answer) error {
	data, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("marshaling answer: %w", err)
	}
	if err := l.client.HSet(ctx, l.key(pingID), answer.QuestionID, data).Err(); err != nil {
		return fmt.Errorf("recording answer to redis: %w", err)
	}
	return nil
}

// Lookup returns the answer for a resolved id, or nil when absent.
func (l *Ledger) Lookup(ctx context.Context, pingID, resolvedID string) (*domain.Answer, error) {
	val, err := l.client.HGet(ctx, l.key(pingID), resolvedID).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("looking up answer in redis: %w", err)
	}
	var answer domain.Answer
	if err := json.Unmarshal([]byte(val), &answer); err != nil {
		return nil, fmt.Errorf("unmarshaling answer: %w", err)
	}
	return &answer, nil
}

// List returns all answers for a ping, ordered by resolved id.
func (l *Ledger) List(ctx context.Context, pingID string) ([]*domain.Answer, error) {
	fields, err := l.client.HGetAll(ctx, l.key(pingID)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing answers from redis: %w", err)
	}
	out := make([]*domain.Answer, 0, len(fields))
	for _, raw := range fields {
		var answer domain.Answer
		if err := json.Unmarshal([]byte(raw), &answer); err != nil {
			return nil, fmt.Errorf("unmarshaling answer: %w", err)
		}
		out = append(out, &answer)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}
