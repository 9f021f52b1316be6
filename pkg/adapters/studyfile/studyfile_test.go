package studyfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellping/wellping-sub000/pkg/adapters/studyfile"
	"github.com/wellping/wellping-sub000/pkg/domain"
)

const demoYAML = `
streamName: demoStream
startingQuestion: gate
questions:
  - id: gate
    type: YesNo
    question: Did you talk to anyone?
    next: wrap
    branchStartId:
      yes: people
      no: null
  - id: people
    type: MultipleText
    question: Who did you talk to?
    next: wrap
    max: 3
    repeatedItemStartId: about[__INDEX__]
    variableName: NAME
    indexName: INDEX
  - id: about[__INDEX__]
    type: Slider
    question: How close do you feel to [__NAME__]?
  - id: wrap
    type: HowLongAgo
    question: How long ago was that?
`

const demoJSON = `{
  "streamName": "demoStream",
  "startingQuestion": "mood",
  "questions": [
    {
      "id": "mood",
      "type": "ChoicesWithSingleAnswer",
      "question": "Mood?",
      "choices": ["stressed", "fine"],
      "specialCasesStartId": {"stressed": "why", "_pna_": null},
      "next": null
    },
    {"id": "why", "type": "Slider", "question": "How much?", "next": null}
  ]
}`

func TestParseYAML(t *testing.T) {
	graph, err := studyfile.ParseYAML([]byte(demoYAML))
	require.NoError(t, err)
	assert.Equal(t, "demoStream", graph.StreamName)
	assert.Equal(t, "gate", graph.StartingQuestionID)
	require.Len(t, graph.Questions, 4)

	gate, ok := graph.Questions["gate"].(*domain.YesNoQuestion)
	require.True(t, ok)
	require.NotNil(t, gate.BranchStartID)
	assert.Equal(t, domain.RedirectTo("people"), gate.BranchStartID.Yes)
	assert.True(t, gate.BranchStartID.No.Null)

	require.NoError(t, studyfile.Validate(graph))
}

func TestParseJSON(t *testing.T) {
	graph, err := studyfile.ParseJSON([]byte(demoJSON))
	require.NoError(t, err)
	mood, ok := graph.Questions["mood"].(*domain.ChoicesWithSingleAnswerQuestion)
	require.True(t, ok)
	assert.Equal(t, domain.RedirectTo("why"), mood.SpecialCasesStartID["stressed"])
	assert.True(t, mood.SpecialCasesStartID[domain.NoAnswerChoiceKey].Null)

	require.NoError(t, studyfile.Validate(graph))
}

func TestParse_DuplicateID(t *testing.T) {
	raw := `{
	  "streamName": "s",
	  "startingQuestion": "a",
	  "questions": [
	    {"id": "a", "type": "Slider", "question": "x", "next": null},
	    {"id": "a", "type": "Slider", "question": "y", "next": null}
	  ]
	}`
	_, err := studyfile.ParseJSON([]byte(raw))
	assert.ErrorContains(t, err, `duplicate question id "a"`)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml by extension", func(t *testing.T) {
		path := filepath.Join(dir, "demo.yaml")
		require.NoError(t, os.WriteFile(path, []byte(demoYAML), 0o644))
		graph, err := studyfile.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "demoStream", graph.StreamName)
	})

	t.Run("json by extension", func(t *testing.T) {
		path := filepath.Join(dir, "demo.json")
		require.NoError(t, os.WriteFile(path, []byte(demoJSON), 0o644))
		graph, err := studyfile.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "mood", graph.StartingQuestionID)
	})

	t.Run("invalid file reports the path", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("streamName: s\nstartingQuestion: ghost\nquestions: []\n"), 0o644))
		_, err := studyfile.Load(path)
		assert.ErrorContains(t, err, "broken.yaml")
		assert.ErrorContains(t, err, `startingQuestion "ghost" does not exist`)
	})
}

func graphWith(start string, questions ...domain.Question) *domain.Graph {
	g := &domain.Graph{StreamName: "s", StartingQuestionID: start, Questions: map[string]domain.Question{}}
	for _, q := range questions {
		g.Questions[q.QuestionID()] = q
	}
	return g
}

func strptr(s string) *string { return &s }

func TestValidate(t *testing.T) {
	t.Run("dangling next", func(t *testing.T) {
		g := graphWith("a", &domain.SliderQuestion{
			QuestionBase: domain.QuestionBase{ID: "a", Type: domain.QuestionSlider, Next: strptr("ghost")},
		})
		err := studyfile.Validate(g)
		assert.ErrorContains(t, err, `references unknown question "ghost"`)
	})

	t.Run("templated refs are skipped", func(t *testing.T) {
		g := graphWith("a", &domain.SliderQuestion{
			QuestionBase: domain.QuestionBase{ID: "a", Type: domain.QuestionSlider, Next: strptr("item[__INDEX__]")},
		})
		assert.NoError(t, studyfile.Validate(g))
	})

	t.Run("empty choices", func(t *testing.T) {
		g := graphWith("c", &domain.ChoicesWithSingleAnswerQuestion{
			QuestionBase: domain.QuestionBase{ID: "c", Type: domain.QuestionChoicesWithSingleAnswer},
		})
		err := studyfile.Validate(g)
		assert.ErrorContains(t, err, "choices must not be empty")
	})

	t.Run("special case key must be a choice value or reserved", func(t *testing.T) {
		g := graphWith("c", &domain.ChoicesWithSingleAnswerQuestion{
			QuestionBase: domain.QuestionBase{ID: "c", Type: domain.QuestionChoicesWithSingleAnswer},
			ChoicesSpec: domain.ChoicesSpec{
				Choices: []domain.Choice{{Value: "x", Text: "X"}},
				SpecialCasesStartID: map[string]domain.Redirect{
					"nope":                   domain.RedirectNull(),
					domain.NoAnswerChoiceKey: domain.RedirectNull(),
				},
			},
		})
		err := studyfile.Validate(g)
		assert.ErrorContains(t, err, `specialCasesStartId key "nope"`)
	})

	t.Run("repeated item requires variable and index names", func(t *testing.T) {
		g := graphWith("m",
			&domain.MultipleTextQuestion{
				QuestionBase:        domain.QuestionBase{ID: "m", Type: domain.QuestionMultipleText},
				Max:                 3,
				RepeatedItemStartID: strptr("item"),
			},
			&domain.SliderQuestion{
				QuestionBase: domain.QuestionBase{ID: "item", Type: domain.QuestionSlider},
			},
		)
		err := studyfile.Validate(g)
		assert.ErrorContains(t, err, "requires variableName")
		assert.ErrorContains(t, err, "requires indexName")
	})

	t.Run("non positive max", func(t *testing.T) {
		g := graphWith("m", &domain.MultipleTextQuestion{
			QuestionBase: domain.QuestionBase{ID: "m", Type: domain.QuestionMultipleText},
		})
		err := studyfile.Validate(g)
		assert.ErrorContains(t, err, "max must be positive")
	})

	t.Run("branch condition type must be comparable", func(t *testing.T) {
		g := graphWith("b",
			&domain.BranchQuestion{
				QuestionBase: domain.QuestionBase{ID: "b", Type: domain.QuestionBranch},
				Condition: domain.BranchCondition{
					QuestionID:   "s",
					QuestionType: domain.QuestionSlider,
					Target:       1,
				},
				BranchStartID: domain.BranchTargets{
					True:  domain.RedirectTo("s"),
					False: domain.RedirectTo("s"),
				},
			},
			&domain.SliderQuestion{
				QuestionBase: domain.QuestionBase{ID: "s", Type: domain.QuestionSlider},
			},
		)
		err := studyfile.Validate(g)
		assert.ErrorContains(t, err, "is not comparable")
	})

	t.Run("relative comparison needs targets", func(t *testing.T) {
		g := graphWith("cmp", &domain.BranchWithRelativeComparisonQuestion{
			QuestionBase: domain.QuestionBase{ID: "cmp", Type: domain.QuestionBranchWithRelativeComparison},
		})
		err := studyfile.Validate(g)
		assert.ErrorContains(t, err, "must list at least one question")
	})

	t.Run("errors accumulate", func(t *testing.T) {
		g := graphWith("", &domain.SliderQuestion{
			QuestionBase: domain.QuestionBase{ID: "a", Type: domain.QuestionSlider, Next: strptr("ghost")},
		})
		g.StreamName = ""
		err := studyfile.Validate(g)
		assert.ErrorContains(t, err, "streamName is required")
		assert.ErrorContains(t, err, "startingQuestion is required")
		assert.ErrorContains(t, err, "unknown question")
	})
}
