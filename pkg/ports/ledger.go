package ports

import (
	"context"

	"github.com/wellping/wellping-sub000/pkg/domain"
)

// AnswerStore is the durable answer ledger, keyed by (ping id, resolved
// question id). Recording the same key twice overwrites. The store does not
// validate payload shapes; widgets own that.
type AnswerStore interface {
	// Record creates or overwrites the answer at its resolved id.
	Record(ctx context.Context, pingID string, answer *domain.Answer) error

	// Lookup returns the answer for a resolved id, or nil when absent.
	Lookup(ctx context.Context, pingID string, resolvedID string) (*domain.Answer, error)

	// List returns all answers recorded for a ping.
	List(ctx context.Context, pingID string) ([]*domain.Answer, error)
}
