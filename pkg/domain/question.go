package domain

// QuestionType tags each variant of the question union.
type QuestionType string

const (
	QuestionSlider                       QuestionType = "Slider"
	QuestionChoicesWithSingleAnswer      QuestionType = "ChoicesWithSingleAnswer"
	QuestionChoicesWithMultipleAnswers   QuestionType = "ChoicesWithMultipleAnswers"
	QuestionYesNo                        QuestionType = "YesNo"
	QuestionMultipleText                 QuestionType = "MultipleText"
	QuestionHowLongAgo                   QuestionType = "HowLongAgo"
	QuestionBranch                       QuestionType = "Branch"
	QuestionBranchWithRelativeComparison QuestionType = "BranchWithRelativeComparison"
)

// NoAnswerChoiceKey is the reserved specialCasesStartId key matched when the
// respondent advanced without selecting anything (prefer-not-to-answer or
// next-without-option).
const NoAnswerChoiceKey = "_pna_"

// Question is one node in a survey stream. Exactly eight concrete types
// implement it; routing logic switches on the concrete type rather than a
// tag so each variant carries only its own fields.
type Question interface {
	// QuestionID returns the raw id template. It only becomes comparable to
	// other ids after placeholder resolution against the current extra data.
	QuestionID() string
	// QuestionType returns the variant tag.
	QuestionType() QuestionType
	// QuestionText returns the raw text template shown to the respondent.
	QuestionText() string
	// NextID returns the id template of the forced follow-up question, or
	// nil when this node has no outgoing next edge.
	NextID() *string
	// Interactive reports whether the respondent ever sees this node.
	// Branch evaluators are traversed silently.
	Interactive() bool
}

// QuestionBase carries the fields shared by every question variant.
type QuestionBase struct {
	ID   string       `json:"id" yaml:"id"`
	Type QuestionType `json:"type" yaml:"type"`
	Text string       `json:"question" yaml:"question"`
	Next *string      `json:"next" yaml:"next"`
}

func (b QuestionBase) QuestionID() string         { return b.ID }
func (b QuestionBase) QuestionType() QuestionType { return b.Type }
func (b QuestionBase) QuestionText() string       { return b.Text }
func (b QuestionBase) NextID() *string            { return b.Next }
func (b QuestionBase) Interactive() bool          { return true }

// SliderQuestion asks for a value on a continuous scale.
type SliderQuestion struct {
	QuestionBase `yaml:",inline"`

	// DefaultValue preloads the slider position.
	DefaultValue *int `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	// DefaultValueFromQuestionID inherits the default from a prior slider
	// answer instead; takes precedence over DefaultValue when that answer
	// exists.
	DefaultValueFromQuestionID *string `json:"defaultValueFromQuestionId,omitempty" yaml:"defaultValueFromQuestionId,omitempty"`
}

// Choice is one selectable option. Value is what answers and special-case
// routing key on; Text is what the respondent sees.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Text  string `json:"text" yaml:"text"`
}

// ChoicesSpec carries the fields shared by both choice question variants.
type ChoicesSpec struct {
	Choices []Choice `json:"choices" yaml:"choices"`

	// SpecialCasesStartID redirects traversal depending on the selection.
	// Keys are choice values, plus the reserved NoAnswerChoiceKey. A null
	// target terminates the sub-path instead of following next.
	SpecialCasesStartID map[string]Redirect `json:"specialCasesStartId,omitempty" yaml:"specialCasesStartId,omitempty"`

	// RandomizeChoicesOrder shuffles the display order, leaving the values
	// listed in RandomizeExceptForChoiceValues at their original positions
	// (typically trailing "None of the above" style options).
	RandomizeChoicesOrder          bool     `json:"randomizeChoicesOrder,omitempty" yaml:"randomizeChoicesOrder,omitempty"`
	RandomizeExceptForChoiceValues []string `json:"randomizeExceptForChoiceValues,omitempty" yaml:"randomizeExceptForChoiceValues,omitempty"`
}

// ChoiceText returns the display text for a choice value.
func (c ChoicesSpec) ChoiceText(value string) (string, bool) {
	for _, ch := range c.Choices {
		if ch.Value == value {
			return ch.Text, true
		}
	}
	return "", false
}

// ChoicesWithSingleAnswerQuestion asks for exactly one selection.
type ChoicesWithSingleAnswerQuestion struct {
	QuestionBase `yaml:",inline"`
	ChoicesSpec  `yaml:",inline"`
}

// ChoicesWithMultipleAnswersQuestion asks for any number of selections.
type ChoicesWithMultipleAnswersQuestion struct {
	QuestionBase `yaml:",inline"`
	ChoicesSpec  `yaml:",inline"`
}

// YesNoTargets routes a YesNo answer.
type YesNoTargets struct {
	Yes Redirect `json:"yes" yaml:"yes"`
	No  Redirect `json:"no" yaml:"no"`
}

// FollowupStreamRule schedules a named stream for later delivery when the
// respondent answers yes.
type FollowupStreamRule struct {
	Yes string `json:"yes" yaml:"yes"`
}

// YesNoQuestion asks a boolean question.
type YesNoQuestion struct {
	QuestionBase `yaml:",inline"`

	BranchStartID     *YesNoTargets       `json:"branchStartId,omitempty" yaml:"branchStartId,omitempty"`
	AddFollowupStream *FollowupStreamRule `json:"addFollowupStream,omitempty" yaml:"addFollowupStream,omitempty"`
}

// MultipleTextQuestion collects up to Max free-text entries and optionally
// repeats a sub-sequence once per non-empty entry.
type MultipleTextQuestion struct {
	QuestionBase `yaml:",inline"`

	// Max is the entry count cap, reduced by the entry count of the answer
	// to MaxMinusQuestionID when that is set.
	Max                int     `json:"max" yaml:"max"`
	MaxMinusQuestionID *string `json:"maxMinus,omitempty" yaml:"maxMinus,omitempty"`

	// RepeatedItemStartID starts one sub-sequence visit per non-empty
	// entry; each visit sees that entry's value and 1-based index as extra
	// data under VariableName and IndexName.
	RepeatedItemStartID *string `json:"repeatedItemStartId,omitempty" yaml:"repeatedItemStartId,omitempty"`
	// FallbackItemStartID is followed instead when no entries were given.
	FallbackItemStartID Redirect `json:"fallbackItemStartId,omitzero" yaml:"fallbackItemStartId,omitempty"`

	VariableName string `json:"variableName,omitempty" yaml:"variableName,omitempty"`
	IndexName    string `json:"indexName,omitempty" yaml:"indexName,omitempty"`
}

// HowLongAgoQuestion asks for a magnitude plus time unit. It carries no
// routing fields of its own.
type HowLongAgoQuestion struct {
	QuestionBase `yaml:",inline"`
}

// BranchCondition compares a prior answer against a target value. The
// referenced question id is a template resolved against the current extra
// data before lookup.
type BranchCondition struct {
	QuestionID   string       `json:"questionId" yaml:"questionId"`
	QuestionType QuestionType `json:"questionType" yaml:"questionType"`
	// Target is a number (entry count) for MultipleText conditions or a
	// string (choice value) for single-choice conditions.
	Target any `json:"target" yaml:"target"`
}

// BranchTargets routes a Branch evaluation result.
type BranchTargets struct {
	True  Redirect `json:"true" yaml:"true"`
	False Redirect `json:"false" yaml:"false"`
}

// BranchQuestion silently redirects traversal based on a prior answer.
type BranchQuestion struct {
	QuestionBase `yaml:",inline"`

	Condition     BranchCondition `json:"condition" yaml:"condition"`
	BranchStartID BranchTargets   `json:"branchStartId" yaml:"branchStartId"`
}

func (q BranchQuestion) Interactive() bool { return false }

// ComparisonTarget pairs a referenced question id with the redirect taken
// when that question holds the greatest numeric answer. Targets are an
// ordered list because ties break toward the first listed question.
type ComparisonTarget struct {
	QuestionID string   `json:"question" yaml:"question"`
	Target     Redirect `json:"target" yaml:"target"`
}

// BranchWithRelativeComparisonQuestion silently redirects to the target of
// whichever referenced question currently holds the greatest numeric answer.
type BranchWithRelativeComparisonQuestion struct {
	QuestionBase `yaml:",inline"`

	BranchStartID []ComparisonTarget `json:"branchStartId" yaml:"branchStartId"`
}

func (q BranchWithRelativeComparisonQuestion) Interactive() bool { return false }

// Graph is one validated stream: its questions keyed by raw id plus the
// starting question id. The engine treats it as read-only.
type Graph struct {
	StreamName         string
	StartingQuestionID string
	Questions          map[string]Question
}

// Question looks up a node by raw (unresolved) id.
func (g *Graph) Question(id string) (Question, bool) {
	q, ok := g.Questions[id]
	return q, ok
}
