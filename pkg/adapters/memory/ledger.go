package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wellping/wellping-sub000/pkg/domain"
)

// Ledger implements ports.AnswerStore in memory.
// Safe for concurrent use.
type Ledger struct {
	mu   sync.RWMutex
	data map[string]map[string]*domain.Answer // ping id -> resolved id -> answer
}

// NewLedger creates a new in-memory answer ledger.
func NewLedger() *Ledger {
	return &Ledger{
		data: make(map[string]map[string]*domain.Answer),
	}
}

// Record creates or overwrites the answer at its resolved id.
func (l *Ledger) Record(ctx context.Context, pingID string, answer *domain.Answer) error {
	copied := *answer
	l.mu.Lock()
	defer l.mu.Unlock()
	byID, ok := l.data[pingID]
	if !ok {
		byID = make(map[string]*domain.Answer)
		l.data[pingID] = byID
	}
	byID[answer.QuestionID] = &copied
	return nil
}

// Lookup returns the answer for a resolved id, or nil when absent.
func (l *Ledger) Lookup(ctx context.Context, pingID, resolvedID string) (*domain.Answer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	answer, ok := l.data[pingID][resolvedID]
	if !ok {
		return nil, nil
	}
	copied := *answer
	return &copied, nil
}

// List returns all answers for a ping, ordered by resolved id for
// deterministic output.
func (l *Ledger) List(ctx context.Context, pingID string) ([]*domain.Answer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	byID := l.data[pingID]
	out := make([]*domain.Answer, 0, len(byID))
	for _, answer := range byID {
		copied := *answer
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}
