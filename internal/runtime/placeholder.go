package runtime

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/wellping/wellping-sub000/pkg/domain"
)

var (
	variableTokenRe = regexp.MustCompile(`\[__([A-Za-z0-9_]+)__\]`)
	prevTokenRe     = regexp.MustCompile(`\{PREV:([^}]+)\}`)
)

// AnswerLookup finds a previously recorded answer by resolved question id.
// It returns nil when no answer exists.
type AnswerLookup func(resolvedID string) *domain.Answer

// Transform rewrites a variable's value before substitution.
type Transform func(string) string

// Decapitalize lowers the first rune of s.
func Decapitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// DecapitalizeUnless returns a transform that decapitalizes the value
// unless it equals one of the given literals (proper nouns, acronyms).
func DecapitalizeUnless(literals ...string) Transform {
	keep := make(map[string]struct{}, len(literals))
	for _, l := range literals {
		keep[l] = struct{}{}
	}
	return func(s string) string {
		if _, ok := keep[s]; ok {
			return s
		}
		return Decapitalize(s)
	}
}

// Resolver substitutes placeholder tokens in question templates.
//
// Two token forms are supported:
//
//	[__NAME__]   replaced by extraData["NAME"], through the variable's
//	             registered transform if any. A missing key leaves the
//	             token verbatim; substitution never fails.
//	{PREV:id}    replaced by the rendered value of a previously answered
//	             question. Only single-choice answers have a defined
//	             rendering (the chosen option's display text,
//	             decapitalized). Any other answer type, or a simply absent
//	             answer, leaves the token verbatim; a question id missing
//	             from the graph entirely substitutes a visible diagnostic.
type Resolver struct {
	graph      *domain.Graph
	transforms map[string]Transform
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithTransform registers a per-variable value transform.
func WithTransform(variable string, fn Transform) ResolverOption {
	return func(r *Resolver) {
		r.transforms[variable] = fn
	}
}

// NewResolver creates a resolver bound to a stream graph.
func NewResolver(graph *domain.Graph, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		graph:      graph,
		transforms: make(map[string]Transform),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve substitutes all tokens in template against the given extra data
// and answer lookup. Variable tokens are replaced first, so a {PREV:} id
// may itself contain variables.
func (r *Resolver) Resolve(template string, extraData map[string]string, lookup AnswerLookup) string {
	out := variableTokenRe.ReplaceAllStringFunc(template, func(token string) string {
		name := variableTokenRe.FindStringSubmatch(token)[1]
		value, ok := extraData[name]
		if !ok {
			return token
		}
		if fn, ok := r.transforms[name]; ok {
			value = fn(value)
		}
		return value
	})

	if !strings.Contains(out, "{PREV:") {
		return out
	}
	return prevTokenRe.ReplaceAllStringFunc(out, func(token string) string {
		id := prevTokenRe.FindStringSubmatch(token)[1]
		return r.renderPrev(token, id, lookup)
	})
}

// renderPrev renders a {PREV:} reference. Only single-choice sources have
// a defined rendering; anything else leaves the token verbatim.
func (r *Resolver) renderPrev(token, questionID string, lookup AnswerLookup) string {
	question, ok := r.graph.Question(questionID)
	if !ok {
		// Non-critical: user-visible diagnostic, traversal continues.
		return fmt.Sprintf("[unknown question %q]", questionID)
	}
	single, ok := question.(*domain.ChoicesWithSingleAnswerQuestion)
	if !ok {
		return token
	}
	var answer *domain.Answer
	if lookup != nil {
		answer = lookup(questionID)
	}
	value, ok := answer.ChoiceValue()
	if !ok {
		return token
	}
	if text, ok := single.ChoiceText(value); ok {
		return Decapitalize(text)
	}
	return Decapitalize(value)
}
