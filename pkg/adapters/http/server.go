// Package http exposes the survey engine over a small JSON API. State
// lives entirely in the engine's session store; every request rehydrates
// the ping, advances it under a per-ping lock, and persists the result.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"log/slog"
	"math/rand"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mitchellh/mapstructure"

	wellping "github.com/wellping/wellping-sub000"
	"github.com/wellping/wellping-sub000/internal/logging"
	"github.com/wellping/wellping-sub000/internal/runtime"
	"github.com/wellping/wellping-sub000/pkg/domain"
	"github.com/wellping/wellping-sub000/pkg/session"
)

// Server serves one stream's pings.
type Server struct {
	engine *wellping.Engine
	locks  *session.Manager
	logger *slog.Logger
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// WithLockManager replaces the default in-process lock manager (e.g. to
// add distributed locking).
func WithLockManager(locks *session.Manager) ServerOption {
	return func(s *Server) { s.locks = locks }
}

// NewHandler builds the chi router for the engine.
func NewHandler(engine *wellping.Engine, opts ...ServerOption) http.Handler {
	s := &Server{
		engine: engine,
		locks:  session.NewManager(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Post("/pings", s.startPing)
	r.Route("/pings/{pingID}", func(r chi.Router) {
		r.Get("/current", s.currentQuestion)
		r.Post("/answers", s.submitAnswer)
		r.Post("/skip", s.skip)
		r.Get("/state", s.state)
	})
	return r
}

type choicePayload struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

type questionPayload struct {
	PingID     string          `json:"pingId"`
	Completed  bool            `json:"completed"`
	QuestionID string          `json:"questionId,omitempty"`
	Type       string          `json:"type,omitempty"`
	Text       string          `json:"text,omitempty"`
	Choices    []choicePayload `json:"choices,omitempty"`
	Default    *int            `json:"defaultValue,omitempty"`
	MaxEntries *int            `json:"maxEntries,omitempty"`
}

type answerBody struct {
	Value             any  `json:"value"`
	PreferNotToAnswer bool `json:"preferNotToAnswer"`
}

func (s *Server) startPing(w http.ResponseWriter, r *http.Request) {
	ping, err := s.engine.StartPing(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.renderCurrent(w, ping)
}

func (s *Server) currentQuestion(w http.ResponseWriter, r *http.Request) {
	pingID := chi.URLParam(r, "pingID")
	err := s.locks.WithLock(r.Context(), pingID, func(ctx context.Context) error {
		ping, err := s.engine.ResumePing(ctx, pingID)
		if err != nil {
			return err
		}
		s.renderCurrent(w, ping)
		return nil
	})
	if err != nil {
		s.fail(w, err)
	}
}

func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	pingID := chi.URLParam(r, "pingID")
	var body answerBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := s.locks.WithLock(r.Context(), pingID, func(ctx context.Context) error {
		ping, err := s.engine.ResumePing(ctx, pingID)
		if err != nil {
			return err
		}
		current, err := ping.CurrentQuestion()
		if err != nil {
			return err
		}
		value, err := coerceValue(current.Question, body.Value)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil
		}
		if err := ping.SubmitAnswer(ctx, value); err != nil {
			return err
		}
		s.renderCurrent(w, ping)
		return nil
	})
	if err != nil {
		s.fail(w, err)
	}
}

func (s *Server) skip(w http.ResponseWriter, r *http.Request) {
	pingID := chi.URLParam(r, "pingID")
	var body answerBody
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	err := s.locks.WithLock(r.Context(), pingID, func(ctx context.Context) error {
		ping, err := s.engine.ResumePing(ctx, pingID)
		if err != nil {
			return err
		}
		if err := ping.Skip(ctx, body.PreferNotToAnswer); err != nil {
			return err
		}
		s.renderCurrent(w, ping)
		return nil
	})
	if err != nil {
		s.fail(w, err)
	}
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	pingID := chi.URLParam(r, "pingID")
	err := s.locks.WithLock(r.Context(), pingID, func(ctx context.Context) error {
		ping, err := s.engine.ResumePing(ctx, pingID)
		if err != nil {
			return err
		}
		s.respond(w, http.StatusOK, ping.State())
		return nil
	})
	if err != nil {
		s.fail(w, err)
	}
}

// renderCurrent writes the resolved current question, or the completion
// marker once the ping is done.
func (s *Server) renderCurrent(w http.ResponseWriter, ping *wellping.Ping) {
	if ping.Completed() {
		s.respond(w, http.StatusOK, questionPayload{PingID: ping.ID(), Completed: true})
		return
	}
	current, err := ping.CurrentQuestion()
	if err != nil {
		s.fail(w, err)
		return
	}

	payload := questionPayload{
		PingID:     ping.ID(),
		QuestionID: current.ResolvedID,
		Type:       string(current.Question.QuestionType()),
		Text:       current.Text,
	}
	core := s.engine.Core()
	answers := ping.State().Answers
	lookup := func(id string) *domain.Answer { return answers[id] }

	switch q := current.Question.(type) {
	case *domain.SliderQuestion:
		payload.Default = core.SliderDefault(q, current.ExtraData, lookup)
	case *domain.ChoicesWithSingleAnswerQuestion:
		payload.Choices = displayChoices(q.ChoicesSpec, ping.ID(), current.ResolvedID)
	case *domain.ChoicesWithMultipleAnswersQuestion:
		payload.Choices = displayChoices(q.ChoicesSpec, ping.ID(), current.ResolvedID)
	case *domain.MultipleTextQuestion:
		max := core.MultipleTextMax(q, current.ExtraData, lookup)
		payload.MaxEntries = &max
	}
	s.respond(w, http.StatusOK, payload)
}

// displayChoices renders the presentation order, seeding the shuffle from
// the (ping, resolved id) pair so re-fetching the same question cannot
// reorder its choices.
func displayChoices(spec domain.ChoicesSpec, pingID, resolvedID string) []choicePayload {
	h := fnv.New64a()
	h.Write([]byte(pingID))
	h.Write([]byte(resolvedID))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	choices := runtime.DisplayChoices(spec, rng)
	out := make([]choicePayload, len(choices))
	for i, ch := range choices {
		out[i] = choicePayload{Value: ch.Value, Text: ch.Text}
	}
	return out
}

// coerceValue shapes the submitted JSON value per question type. Deeper
// validation stays with the widgets; this only rules out grossly wrong
// payload kinds.
func coerceValue(q domain.Question, raw any) (any, error) {
	switch q.(type) {
	case *domain.SliderQuestion:
		var v float64
		if err := mapstructure.WeakDecode(raw, &v); err != nil {
			return nil, errors.New("slider answer must be a number")
		}
		return v, nil
	case *domain.ChoicesWithSingleAnswerQuestion:
		var v string
		if err := mapstructure.Decode(raw, &v); err != nil {
			return nil, errors.New("single-choice answer must be a string")
		}
		return v, nil
	case *domain.ChoicesWithMultipleAnswersQuestion, *domain.MultipleTextQuestion:
		var v []string
		if err := mapstructure.Decode(raw, &v); err != nil {
			return nil, errors.New("answer must be a list of strings")
		}
		return v, nil
	case *domain.YesNoQuestion:
		var v bool
		if err := mapstructure.WeakDecode(raw, &v); err != nil {
			return nil, errors.New("yes/no answer must be a boolean")
		}
		return v, nil
	default:
		return raw, nil
	}
}

func (s *Server) respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("failed to encode response", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "ping not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrPingCompleted):
		http.Error(w, "ping already completed", http.StatusConflict)
	case errors.Is(err, domain.ErrPingHalted), errors.Is(err, domain.ErrQuestionNotFound):
		// Critical halt: surface loudly, never substitute a default.
		s.logger.Error("ping halted on unresolvable question", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		s.logger.Error("request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
