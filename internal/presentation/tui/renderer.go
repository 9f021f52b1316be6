// Package tui renders questions for the interactive CLI.
package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/wellping/wellping-sub000/pkg/domain"
)

// Renderer formats questions with terminal styling. It degrades to plain
// text automatically when stdout is not a TTY.
type Renderer struct {
	profile termenv.Profile
}

// NewRenderer detects the terminal's color profile.
func NewRenderer() *Renderer {
	return &Renderer{profile: termenv.ColorProfile()}
}

// Question formats the resolved question text plus its input hint.
func (r *Renderer) Question(q domain.Question, text string, choices []domain.Choice, sliderDefault *int, maxEntries int) string {
	var b strings.Builder

	title := termenv.String(text).Foreground(r.profile.Color("6")).Bold()
	b.WriteString(title.String())
	b.WriteString("\n")

	switch q.(type) {
	case *domain.SliderQuestion:
		hint := "enter a value 0-100"
		if sliderDefault != nil {
			hint = fmt.Sprintf("enter a value 0-100 (default %d)", *sliderDefault)
		}
		b.WriteString(r.dim(hint))
	case *domain.ChoicesWithSingleAnswerQuestion:
		r.writeChoices(&b, choices)
		b.WriteString(r.dim("pick one choice by number"))
	case *domain.ChoicesWithMultipleAnswersQuestion:
		r.writeChoices(&b, choices)
		b.WriteString(r.dim("pick any choices by number, comma-separated"))
	case *domain.YesNoQuestion:
		b.WriteString(r.dim("answer yes or no"))
	case *domain.MultipleTextQuestion:
		b.WriteString(r.dim(fmt.Sprintf("enter up to %d values, comma-separated", maxEntries)))
	case *domain.HowLongAgoQuestion:
		b.WriteString(r.dim("answer like: 3 days, 2 weeks, 1 month"))
	}
	b.WriteString("\n")
	return b.String()
}

// Completed formats the end-of-ping banner.
func (r *Renderer) Completed() string {
	return termenv.String("Survey complete. Thank you!").
		Foreground(r.profile.Color("2")).Bold().String() + "\n"
}

func (r *Renderer) writeChoices(b *strings.Builder, choices []domain.Choice) {
	for i, ch := range choices {
		fmt.Fprintf(b, "  %d) %s\n", i+1, ch.Text)
	}
}

func (r *Renderer) dim(s string) string {
	return termenv.String(s).Faint().String()
}
