package domain

import (
	"strings"
	"time"
)

// AnswerData wraps the type-tagged payload of an answer. The engine never
// validates the shape beyond tagging; widgets own that. Value survives a
// JSON round trip as the usual generic types (float64, []any, map), so the
// typed accessors on Answer tolerate both the native and decoded forms.
type AnswerData struct {
	Value any `json:"value"`
}

// Answer is one recorded response, keyed by the question's resolved id.
// A node visited N times through a repeated sub-sequence resolves to N
// distinct ids and therefore N independent answers.
type Answer struct {
	QuestionID        string       `json:"questionId"`
	Type              QuestionType `json:"type"`
	PreferNotToAnswer bool         `json:"preferNotToAnswer"`
	// NextWithoutOption is true when the respondent advanced without
	// providing data.
	NextWithoutOption bool        `json:"nextWithoutOption"`
	Data              *AnswerData `json:"data"`
	LastUpdateDate    time.Time   `json:"lastUpdateDate"`
}

// Empty reports whether the answer carries no payload, either because the
// respondent declined or skipped, or because the data slot is null.
func (a *Answer) Empty() bool {
	return a == nil || a.Data == nil || a.Data.Value == nil
}

// ChoiceValue returns the selected value of a single-choice answer.
func (a *Answer) ChoiceValue() (string, bool) {
	if a.Empty() {
		return "", false
	}
	s, ok := a.Data.Value.(string)
	return s, ok
}

// ChoiceValues returns the selected values of a multiple-choice answer in
// the order the respondent saw them.
func (a *Answer) ChoiceValues() []string {
	if a.Empty() {
		return nil
	}
	return stringSlice(a.Data.Value)
}

// BoolValue returns the payload of a yes/no answer.
func (a *Answer) BoolValue() (bool, bool) {
	if a.Empty() {
		return false, false
	}
	b, ok := a.Data.Value.(bool)
	return b, ok
}

// TextValues returns the non-empty entries of a multiple-text answer.
func (a *Answer) TextValues() []string {
	if a.Empty() {
		return nil
	}
	var out []string
	for _, v := range stringSlice(a.Data.Value) {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// NumericValue returns the payload as a float64 for answers that hold a
// number (sliders). It handles the int forms produced in memory and the
// float64 form produced by JSON decoding.
func (a *Answer) NumericValue() (float64, bool) {
	if a.Empty() {
		return 0, false
	}
	return AsNumber(a.Data.Value)
}

// AsNumber coerces the numeric forms a payload can take after in-memory
// construction or a JSON round trip.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func stringSlice(v any) []string {
	switch vs := v.(type) {
	case []string:
		return vs
	case []any:
		out := make([]string, 0, len(vs))
		for _, item := range vs {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
