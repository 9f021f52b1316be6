package studyfile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wellping/wellping-sub000/pkg/domain"
)

// Validate checks graph closure and per-type structural rules. The
// traversal engine never re-checks these; a graph that passes here cannot
// dangle mid-traversal unless it routes through templated ids, which can
// only be checked at runtime.
func Validate(graph *domain.Graph) error {
	var errs []error
	report := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if graph.StreamName == "" {
		report("streamName is required")
	}
	if graph.StartingQuestionID == "" {
		report("startingQuestion is required")
	} else if _, ok := graph.Questions[graph.StartingQuestionID]; !ok {
		report("startingQuestion %q does not exist", graph.StartingQuestionID)
	}

	checkRef := func(from, field, target string) {
		// Templated ids resolve at runtime; closure cannot be proven here.
		if strings.Contains(target, "[__") {
			return
		}
		if _, ok := graph.Questions[target]; !ok {
			report("question %q: %s references unknown question %q", from, field, target)
		}
	}
	checkRedirect := func(from, field string, r domain.Redirect) {
		if r.Defined && !r.Null {
			checkRef(from, field, r.ID)
		}
	}

	for id, q := range graph.Questions {
		if next := q.NextID(); next != nil {
			checkRef(id, "next", *next)
		}

		switch q := q.(type) {
		case *domain.SliderQuestion:
			if q.DefaultValueFromQuestionID != nil {
				checkRef(id, "defaultValueFromQuestionId", *q.DefaultValueFromQuestionID)
			}

		case *domain.ChoicesWithSingleAnswerQuestion:
			validateChoices(id, q.ChoicesSpec, checkRedirect, report)

		case *domain.ChoicesWithMultipleAnswersQuestion:
			validateChoices(id, q.ChoicesSpec, checkRedirect, report)

		case *domain.YesNoQuestion:
			if q.BranchStartID != nil {
				checkRedirect(id, "branchStartId.yes", q.BranchStartID.Yes)
				checkRedirect(id, "branchStartId.no", q.BranchStartID.No)
			}

		case *domain.MultipleTextQuestion:
			if q.Max <= 0 {
				report("question %q: max must be positive", id)
			}
			if q.MaxMinusQuestionID != nil {
				checkRef(id, "maxMinus", *q.MaxMinusQuestionID)
			}
			if q.RepeatedItemStartID != nil {
				checkRef(id, "repeatedItemStartId", *q.RepeatedItemStartID)
				if q.VariableName == "" {
					report("question %q: repeatedItemStartId requires variableName", id)
				}
				if q.IndexName == "" {
					report("question %q: repeatedItemStartId requires indexName", id)
				}
			}
			checkRedirect(id, "fallbackItemStartId", q.FallbackItemStartID)

		case *domain.BranchQuestion:
			checkRef(id, "condition.questionId", q.Condition.QuestionID)
			switch q.Condition.QuestionType {
			case domain.QuestionMultipleText, domain.QuestionChoicesWithSingleAnswer:
			default:
				report("question %q: condition.questionType %q is not comparable", id, q.Condition.QuestionType)
			}
			checkRedirect(id, "branchStartId.true", q.BranchStartID.True)
			checkRedirect(id, "branchStartId.false", q.BranchStartID.False)

		case *domain.BranchWithRelativeComparisonQuestion:
			if len(q.BranchStartID) == 0 {
				report("question %q: branchStartId must list at least one question", id)
			}
			for _, candidate := range q.BranchStartID {
				checkRef(id, "branchStartId", candidate.QuestionID)
				checkRedirect(id, "branchStartId target", candidate.Target)
			}
		}
	}

	return errors.Join(errs...)
}

func validateChoices(id string, spec domain.ChoicesSpec, checkRedirect func(string, string, domain.Redirect), report func(string, ...any)) {
	if len(spec.Choices) == 0 {
		report("question %q: choices must not be empty", id)
	}
	values := make(map[string]struct{}, len(spec.Choices))
	for _, ch := range spec.Choices {
		values[ch.Value] = struct{}{}
	}
	for key, target := range spec.SpecialCasesStartID {
		if key != domain.NoAnswerChoiceKey {
			if _, ok := values[key]; !ok {
				report("question %q: specialCasesStartId key %q is not a choice value", id, key)
			}
		}
		checkRedirect(id, fmt.Sprintf("specialCasesStartId[%s]", key), target)
	}
	for _, v := range spec.RandomizeExceptForChoiceValues {
		if _, ok := values[v]; !ok {
			report("question %q: randomizeExceptForChoiceValues entry %q is not a choice value", id, v)
		}
	}
}
