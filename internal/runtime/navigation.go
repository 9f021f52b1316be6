package runtime

import (
	"strconv"

	"github.com/wellping/wellping-sub000/pkg/domain"
)

// Next computes the transition out of prev: the new current position, the
// new jump stack, and any effects for the host to perform.
//
// The algorithm first builds a local jump list plus a fallthrough target
// (prev's next edge, carrying the extra data forward unchanged). Redirect
// fields may append jumps or, when explicitly null, suppress the
// fallthrough. The local list is then consumed from its end, with the
// remainder appended to the outer stack so nested sub-sequences resolve
// before older queued work, like a call stack. Only when both lists are
// exhausted does the traversal reach the terminal marker.
func (e *Engine) Next(
	prev domain.Question,
	prevAnswer *domain.Answer,
	prevExtra map[string]string,
	lookup AnswerLookup,
	outer []domain.QuestionData,
) (domain.CurrentQuestionData, []domain.QuestionData, []Effect) {
	fallthroughID := prev.NextID()
	var jumps []domain.QuestionData
	var effects []Effect

	consider := func(target domain.Redirect) {
		switch {
		case !target.Defined:
			// Fallthrough stands.
		case target.Null:
			fallthroughID = nil
		default:
			jumps = append(jumps, domain.QuestionData{
				QuestionID: target.ID,
				ExtraData:  copyExtra(prevExtra),
			})
		}
	}

	switch q := prev.(type) {
	case *domain.YesNoQuestion:
		if value, ok := prevAnswer.BoolValue(); ok {
			if q.BranchStartID != nil {
				if value {
					consider(q.BranchStartID.Yes)
				} else {
					consider(q.BranchStartID.No)
				}
			}
			if value && q.AddFollowupStream != nil && q.AddFollowupStream.Yes != "" {
				effects = append(effects, Effect{
					Type: EffectScheduleFollowups,
					Payload: FollowupSchedule{
						StreamName: q.AddFollowupStream.Yes,
						Delays:     DefaultFollowupDelays,
					},
				})
			}
		}

	case *domain.MultipleTextQuestion:
		values := prevAnswer.TextValues()
		if q.RepeatedItemStartID == nil || len(values) == 0 {
			consider(q.FallbackItemStartID)
			break
		}
		// Reverse push: the local list is consumed from its end, so this
		// makes iteration 1 the first visited.
		for i := len(values) - 1; i >= 0; i-- {
			jumps = append(jumps, domain.QuestionData{
				QuestionID: *q.RepeatedItemStartID,
				ExtraData: map[string]string{
					q.VariableName: values[i],
					q.IndexName:    strconv.Itoa(i + 1),
				},
			})
		}

	case *domain.BranchQuestion:
		target := q.BranchStartID.False
		conditionID := e.resolver.Resolve(q.Condition.QuestionID, prevExtra, lookup)
		if conditionMatches(q.Condition, lookup(conditionID)) {
			target = q.BranchStartID.True
		}
		consider(target)

	case *domain.BranchWithRelativeComparisonQuestion:
		consider(e.greatestAnswerTarget(q, prevExtra, lookup))

	case *domain.ChoicesWithSingleAnswerQuestion:
		considerChoices(q.ChoicesSpec, prevAnswer, false, consider)

	case *domain.ChoicesWithMultipleAnswersQuestion:
		considerChoices(q.ChoicesSpec, prevAnswer, true, consider)

	default:
		// Slider, HowLongAgo: no routing fields, fallthrough stands.
	}

	// Assemble the local stack: the fallthrough goes to the front so it is
	// the last entry popped, after every jump.
	local := jumps
	if fallthroughID != nil {
		local = append([]domain.QuestionData{{
			QuestionID: *fallthroughID,
			ExtraData:  copyExtra(prevExtra),
		}}, local...)
	}

	outer = append([]domain.QuestionData(nil), outer...)

	if len(local) == 0 {
		if len(outer) == 0 {
			return domain.TerminalQuestionData(), outer, effects
		}
		entry := outer[len(outer)-1]
		outer = outer[:len(outer)-1]
		return asCurrent(entry), outer, effects
	}

	entry := local[len(local)-1]
	outer = append(outer, local[:len(local)-1]...)
	return asCurrent(entry), outer, effects
}

// considerChoices applies specialCasesStartId routing for both choice
// variants. For multiple answers the selections are scanned in displayed
// order and the first mapped selection wins.
func considerChoices(spec domain.ChoicesSpec, answer *domain.Answer, multiple bool, consider func(domain.Redirect)) {
	if len(spec.SpecialCasesStartID) == 0 {
		return
	}
	noAnswer := answer == nil || answer.PreferNotToAnswer || answer.NextWithoutOption
	if noAnswer {
		if target, ok := spec.SpecialCasesStartID[domain.NoAnswerChoiceKey]; ok {
			consider(target)
		}
		return
	}
	if multiple {
		for _, value := range answer.ChoiceValues() {
			if target, ok := spec.SpecialCasesStartID[value]; ok {
				consider(target)
				return
			}
		}
		return
	}
	if value, ok := answer.ChoiceValue(); ok {
		if target, ok := spec.SpecialCasesStartID[value]; ok {
			consider(target)
		}
	}
}

// conditionMatches evaluates a Branch condition against the referenced
// answer: entry-count equality for MultipleText conditions, value equality
// for single-choice conditions.
func conditionMatches(cond domain.BranchCondition, answer *domain.Answer) bool {
	switch cond.QuestionType {
	case domain.QuestionMultipleText:
		want, ok := domain.AsNumber(cond.Target)
		return ok && float64(len(answer.TextValues())) == want
	case domain.QuestionChoicesWithSingleAnswer:
		want, ok := cond.Target.(string)
		if !ok {
			return false
		}
		value, has := answer.ChoiceValue()
		return has && value == want
	default:
		return false
	}
}

// greatestAnswerTarget picks the redirect of the referenced question with
// the strictly greatest numeric answer. A missing or non-numeric answer
// counts as -1 and ties break toward the first listed question.
func (e *Engine) greatestAnswerTarget(q *domain.BranchWithRelativeComparisonQuestion, extra map[string]string, lookup AnswerLookup) domain.Redirect {
	if len(q.BranchStartID) == 0 {
		return domain.RedirectNull()
	}
	var winner domain.Redirect
	best := 0.0
	for i, candidate := range q.BranchStartID {
		value := -1.0
		resolvedID := e.resolver.Resolve(candidate.QuestionID, extra, lookup)
		if n, ok := lookup(resolvedID).NumericValue(); ok {
			value = n
		}
		if i == 0 || value > best {
			best = value
			winner = candidate.Target
		}
	}
	return winner
}

func asCurrent(entry domain.QuestionData) domain.CurrentQuestionData {
	id := entry.QuestionID
	extra := entry.ExtraData
	if extra == nil {
		extra = map[string]string{}
	}
	return domain.CurrentQuestionData{QuestionID: &id, ExtraData: extra}
}

func copyExtra(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
