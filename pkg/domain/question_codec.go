package domain

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalJSON accepts either a bare string (value doubles as display
// text) or a {value, text} object.
func (c *Choice) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Value = s
		c.Text = s
		return nil
	}
	type plain Choice
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Choice(p)
	if c.Text == "" {
		c.Text = c.Value
	}
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for study files authored in YAML.
func (c *Choice) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		c.Value = value.Value
		c.Text = value.Value
		return nil
	}
	type plain Choice
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = Choice(p)
	if c.Text == "" {
		c.Text = c.Value
	}
	return nil
}

type questionTag struct {
	Type QuestionType `json:"type" yaml:"type"`
}

func emptyQuestion(tag QuestionType) (Question, error) {
	switch tag {
	case QuestionSlider:
		return &SliderQuestion{}, nil
	case QuestionChoicesWithSingleAnswer:
		return &ChoicesWithSingleAnswerQuestion{}, nil
	case QuestionChoicesWithMultipleAnswers:
		return &ChoicesWithMultipleAnswersQuestion{}, nil
	case QuestionYesNo:
		return &YesNoQuestion{}, nil
	case QuestionMultipleText:
		return &MultipleTextQuestion{}, nil
	case QuestionHowLongAgo:
		return &HowLongAgoQuestion{}, nil
	case QuestionBranch:
		return &BranchQuestion{}, nil
	case QuestionBranchWithRelativeComparison:
		return &BranchWithRelativeComparisonQuestion{}, nil
	default:
		return nil, fmt.Errorf("unknown question type %q", tag)
	}
}

// DecodeQuestionJSON parses one question node, dispatching on its type tag.
func DecodeQuestionJSON(data []byte) (Question, error) {
	var tag questionTag
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("reading question type tag: %w", err)
	}
	q, err := emptyQuestion(tag.Type)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, q); err != nil {
		return nil, fmt.Errorf("decoding %s question: %w", tag.Type, err)
	}
	return q, nil
}

// DecodeQuestionYAML parses one question node from a YAML mapping.
func DecodeQuestionYAML(node *yaml.Node) (Question, error) {
	var tag questionTag
	if err := node.Decode(&tag); err != nil {
		return nil, fmt.Errorf("reading question type tag: %w", err)
	}
	q, err := emptyQuestion(tag.Type)
	if err != nil {
		return nil, err
	}
	if err := node.Decode(q); err != nil {
		return nil, fmt.Errorf("decoding %s question: %w", tag.Type, err)
	}
	return q, nil
}
