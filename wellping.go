// Package wellping implements a resumable traversal engine for
// experience-sampling surveys.
//
// A survey is a stream: a graph of typed questions with conditional
// branches, relative-comparison branches, and repeated sub-sequences driven
// by user-entered counts. The Engine walks one ping (one pass of a
// respondent through a stream) question by question, resolving placeholder
// templates against per-position extra data, recording answers under
// resolved ids, and leaving a fully serializable snapshot after every
// transition so the respondent can stop and resume at any point.
package wellping

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wellping/wellping-sub000/internal/logging"
	"github.com/wellping/wellping-sub000/internal/runtime"
	"github.com/wellping/wellping-sub000/pkg/domain"
	"github.com/wellping/wellping-sub000/pkg/ports"
)

// DefaultUploadInterval is the minimum spacing between opportunistic
// upload triggers.
const DefaultUploadInterval = 30 * time.Second

// CompletionFunc receives the finalized ping snapshot (end timestamp
// stamped) exactly once, when traversal reaches the terminal marker.
type CompletionFunc func(context.Context, *domain.SessionState)

// Engine drives pings through one stream graph. It is safe to share across
// pings; all per-ping state lives in the Ping handle and its persisted
// SessionState.
type Engine struct {
	graph    *domain.Graph
	core     *runtime.Engine
	sessions ports.SessionStore
	answers  ports.AnswerStore
	queue    ports.FollowupQueue
	uploader ports.Uploader

	hooks          domain.LifecycleHooks
	onComplete     CompletionFunc
	logger         *slog.Logger
	now            func() time.Time
	uploadInterval time.Duration

	resolverOpts []runtime.ResolverOption
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithFollowupQueue enables deferred stream-start scheduling for YesNo
// addFollowupStream rules.
func WithFollowupQueue(queue ports.FollowupQueue) Option {
	return func(e *Engine) { e.queue = queue }
}

// WithUploader enables opportunistic best-effort uploads after
// transitions.
func WithUploader(uploader ports.Uploader) Option {
	return func(e *Engine) { e.uploader = uploader }
}

// WithHooks registers observability callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// WithCompletion registers the completion callback.
func WithCompletion(fn CompletionFunc) Option {
	return func(e *Engine) { e.onComplete = fn }
}

// WithUploadInterval overrides the upload throttle spacing.
func WithUploadInterval(d time.Duration) Option {
	return func(e *Engine) { e.uploadInterval = d }
}

// WithVariableTransform registers a substitution-variable transform, e.g.
// a decapitalize-unless-proper-noun rule.
func WithVariableTransform(variable string, fn func(string) string) Option {
	return func(e *Engine) {
		e.resolverOpts = append(e.resolverOpts, runtime.WithTransform(variable, fn))
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over an already-validated stream graph. The graph
// source is expected to have guaranteed closure (no dangling references);
// the engine does not re-validate it.
func New(graph *domain.Graph, sessions ports.SessionStore, answers ports.AnswerStore, opts ...Option) *Engine {
	e := &Engine{
		graph:          graph,
		sessions:       sessions,
		answers:        answers,
		logger:         logging.NewNop(),
		now:            time.Now,
		uploadInterval: DefaultUploadInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	resolver := runtime.NewResolver(graph, e.resolverOpts...)
	e.core = runtime.NewEngine(graph,
		runtime.WithResolver(resolver),
		runtime.WithLogger(e.logger),
	)
	return e
}

// Graph returns the stream graph the engine traverses.
func (e *Engine) Graph() *domain.Graph {
	return e.graph
}

// Core exposes the traversal core for presentation helpers (slider
// defaults, effective entry caps).
func (e *Engine) Core() *runtime.Engine {
	return e.core
}

// StartPing begins a new ping at the stream's starting question and
// persists its initial snapshot. If the starting question is a
// non-interactive evaluator it is advanced through immediately.
func (e *Engine) StartPing(ctx context.Context) (*Ping, error) {
	state := domain.NewSessionState(uuid.NewString(), e.graph.StreamName, e.graph.StartingQuestionID, e.now())
	if err := e.sessions.Save(ctx, state.PingID, state); err != nil {
		return nil, fmt.Errorf("persisting initial session state: %w", err)
	}
	p := &Ping{engine: e, state: state}
	if err := p.settle(ctx); err != nil {
		return nil, err
	}
	e.logger.Debug("ping started",
		"ping_id", state.PingID,
		"stream", state.StreamName,
		"start", e.graph.StartingQuestionID,
	)
	return p, nil
}

// ResumePing rehydrates a ping from the session store. The store round
// trip re-parses all serialized timestamps, so the resumed ping reproduces
// the identical next transition as the uninterrupted run.
func (e *Engine) ResumePing(ctx context.Context, pingID string) (*Ping, error) {
	state, err := e.sessions.Load(ctx, pingID)
	if err != nil {
		return nil, err
	}
	return &Ping{engine: e, state: state}, nil
}

// Restore rehydrates a ping from a caller-held snapshot without touching
// the session store.
func (e *Engine) Restore(state *domain.SessionState) *Ping {
	return &Ping{engine: e, state: state.Clone()}
}
