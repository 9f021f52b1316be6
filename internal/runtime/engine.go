package runtime

import (
	"log/slog"

	"github.com/wellping/wellping-sub000/internal/logging"
	"github.com/wellping/wellping-sub000/pkg/domain"
)

// Engine is the pure traversal core for one stream graph. It holds no
// per-ping state: every step takes the previous position and the jump
// stack, and returns the new position, the new stack, and the effects the
// host should perform. All per-ping state therefore lives in the
// serializable SessionState and traversal stays resumable at any point.
type Engine struct {
	graph    *domain.Graph
	resolver *Resolver
	logger   *slog.Logger
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithLogger sets the logger for traversal debug output.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithResolver replaces the default placeholder resolver (e.g. to register
// variable transforms).
func WithResolver(r *Resolver) EngineOption {
	return func(e *Engine) {
		e.resolver = r
	}
}

// NewEngine creates an engine over a validated stream graph.
func NewEngine(graph *domain.Graph, opts ...EngineOption) *Engine {
	e := &Engine{
		graph:    graph,
		resolver: NewResolver(graph),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns the stream graph the engine traverses.
func (e *Engine) Graph() *domain.Graph {
	return e.graph
}

// ResolveID renders a question's id template against extra data. The
// result is the key its answer is stored under.
func (e *Engine) ResolveID(q domain.Question, extraData map[string]string, lookup AnswerLookup) string {
	return e.resolver.Resolve(q.QuestionID(), extraData, lookup)
}

// RenderText renders a question's text template against extra data.
func (e *Engine) RenderText(q domain.Question, extraData map[string]string, lookup AnswerLookup) string {
	return e.resolver.Resolve(q.QuestionText(), extraData, lookup)
}
