package runtime_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellping/wellping-sub000/internal/runtime"
	"github.com/wellping/wellping-sub000/pkg/domain"
)

func intptr(v int) *int { return &v }

func TestSliderDefault(t *testing.T) {
	e := newEngine()

	t.Run("constant default", func(t *testing.T) {
		q := &domain.SliderQuestion{
			QuestionBase: domain.QuestionBase{ID: "s", Type: domain.QuestionSlider},
			DefaultValue: intptr(50),
		}
		got := e.SliderDefault(q, nil, answerMap(nil))
		require.NotNil(t, got)
		assert.Equal(t, 50, *got)
	})

	t.Run("inherited answer wins over the constant", func(t *testing.T) {
		q := &domain.SliderQuestion{
			QuestionBase:               domain.QuestionBase{ID: "s", Type: domain.QuestionSlider},
			DefaultValue:               intptr(50),
			DefaultValueFromQuestionID: strptr("prior[__INDEX__]"),
		}
		lookup := answerMap(map[string]*domain.Answer{
			"prior2": {QuestionID: "prior2", Type: domain.QuestionSlider, Data: &domain.AnswerData{Value: 73}},
		})
		got := e.SliderDefault(q, map[string]string{"INDEX": "2"}, lookup)
		require.NotNil(t, got)
		assert.Equal(t, 73, *got)
	})

	t.Run("missing inherited answer falls back", func(t *testing.T) {
		q := &domain.SliderQuestion{
			QuestionBase:               domain.QuestionBase{ID: "s", Type: domain.QuestionSlider},
			DefaultValueFromQuestionID: strptr("prior"),
		}
		assert.Nil(t, e.SliderDefault(q, nil, answerMap(nil)))
	})
}

func TestMultipleTextMax(t *testing.T) {
	e := newEngine()

	q := &domain.MultipleTextQuestion{
		QuestionBase:       domain.QuestionBase{ID: "more", Type: domain.QuestionMultipleText},
		Max:                3,
		MaxMinusQuestionID: strptr("earlier"),
	}

	lookup := answerMap(map[string]*domain.Answer{
		"earlier": textAnswer("earlier", "a", "b"),
	})
	assert.Equal(t, 1, e.MultipleTextMax(q, nil, lookup))

	assert.Equal(t, 3, e.MultipleTextMax(q, nil, answerMap(nil)),
		"no prior answer leaves the cap alone")

	full := answerMap(map[string]*domain.Answer{
		"earlier": textAnswer("earlier", "a", "b", "c", "d"),
	})
	assert.Equal(t, 0, e.MultipleTextMax(q, nil, full), "floor at zero")
}

func TestDisplayChoices(t *testing.T) {
	spec := domain.ChoicesSpec{
		Choices: []domain.Choice{
			{Value: "a", Text: "A"},
			{Value: "b", Text: "B"},
			{Value: "c", Text: "C"},
			{Value: "none", Text: "None of the above"},
		},
	}

	t.Run("no randomization keeps authored order", func(t *testing.T) {
		got := runtime.DisplayChoices(spec, rand.New(rand.NewSource(1)))
		assert.Equal(t, spec.Choices, got)
	})

	t.Run("excluded values keep their positions", func(t *testing.T) {
		shuffled := spec
		shuffled.RandomizeChoicesOrder = true
		shuffled.RandomizeExceptForChoiceValues = []string{"none"}

		for seed := int64(0); seed < 10; seed++ {
			got := runtime.DisplayChoices(shuffled, rand.New(rand.NewSource(seed)))
			require.Len(t, got, 4)
			assert.Equal(t, "none", got[3].Value, "the anchored option never moves")

			values := map[string]bool{}
			for _, ch := range got {
				values[ch.Value] = true
			}
			assert.Len(t, values, 4, "shuffling permutes, never duplicates")
		}
	})

	t.Run("same seed gives the same order", func(t *testing.T) {
		shuffled := spec
		shuffled.RandomizeChoicesOrder = true
		first := runtime.DisplayChoices(shuffled, rand.New(rand.NewSource(7)))
		second := runtime.DisplayChoices(shuffled, rand.New(rand.NewSource(7)))
		assert.Equal(t, first, second)
	})

	t.Run("source choices are never mutated", func(t *testing.T) {
		shuffled := spec
		shuffled.RandomizeChoicesOrder = true
		_ = runtime.DisplayChoices(shuffled, rand.New(rand.NewSource(3)))
		assert.Equal(t, "a", shuffled.Choices[0].Value)
		assert.Equal(t, "none", shuffled.Choices[3].Value)
	})
}
