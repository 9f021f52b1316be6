package wellping

import (
	"context"
	"fmt"

	"github.com/wellping/wellping-sub000/internal/runtime"
	"github.com/wellping/wellping-sub000/pkg/domain"
)

// Ping is one active traversal. It is not safe for concurrent use: the
// presenting layer must serialize input (e.g. disable controls while a
// transition is pending), matching the engine's single-writer model.
type Ping struct {
	engine *Engine
	state  *domain.SessionState
	halted bool
}

// CurrentQuestion is the resolved view of the active question.
type CurrentQuestion struct {
	Question domain.Question
	// ResolvedID is the id template rendered against the current extra
	// data; answers are keyed by it.
	ResolvedID string
	// Text is the question text with all placeholders substituted.
	Text string
	// ExtraData is the substitution-variable map at this position.
	ExtraData map[string]string
}

// ID returns the ping identifier.
func (p *Ping) ID() string {
	return p.state.PingID
}

// State returns a deep copy of the current snapshot for host-side
// persistence or inspection.
func (p *Ping) State() *domain.SessionState {
	return p.state.Clone()
}

// Completed reports whether traversal reached the terminal marker.
func (p *Ping) Completed() bool {
	return p.state.Completed()
}

// CurrentQuestion resolves the active question. An unresolvable current id
// is the critical halt state: the error is permanent and the ping never
// progresses past it.
func (p *Ping) CurrentQuestion() (*CurrentQuestion, error) {
	if p.state.Completed() {
		return nil, domain.ErrPingCompleted
	}
	if p.halted {
		return nil, domain.ErrPingHalted
	}
	id := *p.state.Current.QuestionID
	question, ok := p.engine.graph.Question(id)
	if !ok {
		p.halted = true
		return nil, fmt.Errorf("current question %q: %w", id, domain.ErrQuestionNotFound)
	}
	extra := p.state.Current.ExtraData
	lookup := p.answerLookup()
	return &CurrentQuestion{
		Question:   question,
		ResolvedID: p.engine.core.ResolveID(question, extra, lookup),
		Text:       p.engine.core.RenderText(question, extra, lookup),
		ExtraData:  extra,
	}, nil
}

// SubmitAnswer records a payload for the current question and advances.
// The payload shape is the widget's responsibility; the engine only tags
// it with the question type.
func (p *Ping) SubmitAnswer(ctx context.Context, value any) error {
	current, err := p.CurrentQuestion()
	if err != nil {
		return err
	}
	answer := &domain.Answer{
		QuestionID:     current.ResolvedID,
		Type:           current.Question.QuestionType(),
		Data:           &domain.AnswerData{Value: value},
		LastUpdateDate: p.engine.now(),
	}
	if err := p.record(ctx, answer); err != nil {
		return err
	}
	return p.advance(ctx)
}

// Skip advances without data. With asPreferNotToAnswer the answer is
// flagged as declined; otherwise it is a plain next-without-option.
func (p *Ping) Skip(ctx context.Context, asPreferNotToAnswer bool) error {
	current, err := p.CurrentQuestion()
	if err != nil {
		return err
	}
	answer := &domain.Answer{
		QuestionID:        current.ResolvedID,
		Type:              current.Question.QuestionType(),
		PreferNotToAnswer: asPreferNotToAnswer,
		NextWithoutOption: !asPreferNotToAnswer,
		LastUpdateDate:    p.engine.now(),
	}
	if err := p.record(ctx, answer); err != nil {
		return err
	}
	return p.advance(ctx)
}

func (p *Ping) answerLookup() runtime.AnswerLookup {
	return func(resolvedID string) *domain.Answer {
		return p.state.Answers[resolvedID]
	}
}

// record writes the answer to the in-state map and the durable ledger.
// Ledger write failures propagate so the host can retry or surface them.
func (p *Ping) record(ctx context.Context, answer *domain.Answer) error {
	p.state.Answers[answer.QuestionID] = answer
	if err := p.engine.answers.Record(ctx, p.state.PingID, answer); err != nil {
		return fmt.Errorf("recording answer %q: %w", answer.QuestionID, err)
	}
	return nil
}

// advance runs one transition, then keeps going while the new current
// question is a non-interactive evaluator. Each iteration persists the
// full snapshot before the next one starts.
func (p *Ping) advance(ctx context.Context) error {
	if p.halted {
		return domain.ErrPingHalted
	}
	id := *p.state.Current.QuestionID
	question, ok := p.engine.graph.Question(id)
	if !ok {
		p.halted = true
		return fmt.Errorf("current question %q: %w", id, domain.ErrQuestionNotFound)
	}

	lookup := p.answerLookup()
	resolvedID := p.engine.core.ResolveID(question, p.state.Current.ExtraData, lookup)
	prevAnswer := p.state.Answers[resolvedID]

	current, stack, effects := p.engine.core.Next(
		question, prevAnswer, p.state.Current.ExtraData, lookup, p.state.Stack,
	)
	p.state.Current = current
	p.state.Stack = stack

	p.applyEffects(ctx, effects)

	if err := p.engine.sessions.Save(ctx, p.state.PingID, p.state); err != nil {
		return fmt.Errorf("persisting session state: %w", err)
	}

	if p.state.Completed() {
		return p.complete(ctx)
	}
	return p.settle(ctx)
}

// settle auto-advances through non-interactive evaluators and fires the
// question-enter hook plus the opportunistic upload once an interactive
// question (or the terminal marker) is reached.
func (p *Ping) settle(ctx context.Context) error {
	for {
		if p.state.Completed() {
			return nil
		}
		id := *p.state.Current.QuestionID
		question, ok := p.engine.graph.Question(id)
		if !ok {
			p.halted = true
			return fmt.Errorf("current question %q: %w", id, domain.ErrQuestionNotFound)
		}
		if question.Interactive() {
			p.emitQuestionEnter(ctx, question)
			p.maybeUpload(ctx)
			return nil
		}

		lookup := p.answerLookup()
		current, stack, effects := p.engine.core.Next(
			question, nil, p.state.Current.ExtraData, lookup, p.state.Stack,
		)
		p.state.Current = current
		p.state.Stack = stack

		p.applyEffects(ctx, effects)

		if err := p.engine.sessions.Save(ctx, p.state.PingID, p.state); err != nil {
			return fmt.Errorf("persisting session state: %w", err)
		}
		if p.state.Completed() {
			return p.complete(ctx)
		}
	}
}

// complete stamps the end time, persists the finalized snapshot, invokes
// the completion callback, and destroys the stored session.
func (p *Ping) complete(ctx context.Context) error {
	now := p.engine.now()
	p.state.EndedAt = &now
	if err := p.engine.sessions.Save(ctx, p.state.PingID, p.state); err != nil {
		return fmt.Errorf("persisting finalized session state: %w", err)
	}

	final := p.state.Clone()
	if p.engine.hooks.OnPingComplete != nil {
		p.engine.hooks.OnPingComplete(ctx, &domain.PingEvent{
			Timestamp:  now,
			PingID:     p.state.PingID,
			StreamName: p.state.StreamName,
			Answers:    len(p.state.Answers),
		})
	}
	if p.engine.onComplete != nil {
		p.engine.onComplete(ctx, final)
	}

	if err := p.engine.sessions.Delete(ctx, p.state.PingID); err != nil {
		p.engine.logger.Warn("failed to delete finished session",
			"ping_id", p.state.PingID, "err", err)
	}
	p.engine.logger.Debug("ping completed", "ping_id", p.state.PingID)
	return nil
}

// applyEffects performs the side effects requested by the pure step. All
// failures here are logged and swallowed; they never block traversal.
func (p *Ping) applyEffects(ctx context.Context, effects []runtime.Effect) {
	for _, effect := range effects {
		switch effect.Type {
		case runtime.EffectScheduleFollowups:
			p.scheduleFollowups(ctx, effect.Payload.(runtime.FollowupSchedule))
		default:
			p.engine.logger.Warn("unknown effect", "type", effect.Type)
		}
	}
}

// scheduleFollowups enqueues the deferred stream-starts, but only while
// the shared queue is empty so repeated yes answers do not pile up
// duplicate schedules.
func (p *Ping) scheduleFollowups(ctx context.Context, schedule runtime.FollowupSchedule) {
	queue := p.engine.queue
	if queue == nil {
		p.engine.logger.Debug("no followup queue configured; skipping schedule",
			"stream", schedule.StreamName)
		return
	}
	entries, err := queue.Entries(ctx)
	if err != nil {
		p.engine.logger.Warn("failed to read followup queue", "err", err)
		return
	}
	if len(entries) > 0 {
		return
	}
	now := p.engine.now()
	scheduled := 0
	for _, delay := range schedule.Delays {
		entry := domain.FollowupEntry{
			StreamName:   schedule.StreamName,
			DeliverAfter: now.Add(delay),
		}
		if err := queue.Enqueue(ctx, entry); err != nil {
			p.engine.logger.Warn("failed to enqueue followup stream",
				"stream", schedule.StreamName, "err", err)
			continue
		}
		scheduled++
	}
	if scheduled > 0 && p.engine.hooks.OnFollowupScheduled != nil {
		p.engine.hooks.OnFollowupScheduled(ctx, &domain.FollowupEvent{
			Timestamp:  now,
			PingID:     p.state.PingID,
			StreamName: schedule.StreamName,
			Entries:    scheduled,
		})
	}
}

// maybeUpload fires a best-effort upload if enough time has passed since
// the last trigger. The upload runs detached; its failure is swallowed.
func (p *Ping) maybeUpload(ctx context.Context) {
	uploader := p.engine.uploader
	if uploader == nil {
		return
	}
	now := p.engine.now()
	if p.state.LastUploadAt != nil && now.Sub(*p.state.LastUploadAt) <= p.engine.uploadInterval {
		return
	}
	p.state.LastUploadAt = &now
	if err := p.engine.sessions.Save(ctx, p.state.PingID, p.state); err != nil {
		p.engine.logger.Warn("failed to persist upload timestamp", "err", err)
	}
	if p.engine.hooks.OnUploadTriggered != nil {
		p.engine.hooks.OnUploadTriggered(ctx, &domain.PingEvent{
			Timestamp:  now,
			PingID:     p.state.PingID,
			StreamName: p.state.StreamName,
			Answers:    len(p.state.Answers),
		})
	}
	logger := p.engine.logger
	go func() {
		if err := uploader.UploadAll(context.Background()); err != nil {
			logger.Debug("opportunistic upload failed", "err", err)
		}
	}()
}

func (p *Ping) emitQuestionEnter(ctx context.Context, question domain.Question) {
	if p.engine.hooks.OnQuestionEnter == nil {
		return
	}
	resolvedID := p.engine.core.ResolveID(question, p.state.Current.ExtraData, p.answerLookup())
	p.engine.hooks.OnQuestionEnter(ctx, &domain.QuestionEvent{
		Timestamp:  p.engine.now(),
		PingID:     p.state.PingID,
		QuestionID: resolvedID,
		Type:       question.QuestionType(),
	})
}
