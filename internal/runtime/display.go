package runtime

import (
	"math/rand"

	"github.com/wellping/wellping-sub000/pkg/domain"
)

// SliderDefault computes the preloaded slider position: the inherited
// prior answer when configured and present, else the constant default,
// else nil.
func (e *Engine) SliderDefault(q *domain.SliderQuestion, extraData map[string]string, lookup AnswerLookup) *int {
	if q.DefaultValueFromQuestionID != nil {
		resolvedID := e.resolver.Resolve(*q.DefaultValueFromQuestionID, extraData, lookup)
		if value, ok := lookup(resolvedID).NumericValue(); ok {
			v := int(value)
			return &v
		}
	}
	return q.DefaultValue
}

// MultipleTextMax computes the effective entry cap: Max, reduced by the
// entry count of the maxMinus question's answer when configured.
func (e *Engine) MultipleTextMax(q *domain.MultipleTextQuestion, extraData map[string]string, lookup AnswerLookup) int {
	max := q.Max
	if q.MaxMinusQuestionID != nil {
		resolvedID := e.resolver.Resolve(*q.MaxMinusQuestionID, extraData, lookup)
		max -= len(lookup(resolvedID).TextValues())
	}
	if max < 0 {
		return 0
	}
	return max
}

// DisplayChoices returns the choices in presentation order. With
// randomization enabled, excluded values keep their original positions and
// the rest are shuffled among the remaining slots using rng.
func DisplayChoices(spec domain.ChoicesSpec, rng *rand.Rand) []domain.Choice {
	out := make([]domain.Choice, len(spec.Choices))
	copy(out, spec.Choices)
	if !spec.RandomizeChoicesOrder || rng == nil {
		return out
	}

	excluded := make(map[string]struct{}, len(spec.RandomizeExceptForChoiceValues))
	for _, v := range spec.RandomizeExceptForChoiceValues {
		excluded[v] = struct{}{}
	}

	var slots []int
	for i, ch := range out {
		if _, ok := excluded[ch.Value]; !ok {
			slots = append(slots, i)
		}
	}
	rng.Shuffle(len(slots), func(a, b int) {
		out[slots[a]], out[slots[b]] = out[slots[b]], out[slots[a]]
	})
	return out
}
