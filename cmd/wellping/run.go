package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	wellping "github.com/wellping/wellping-sub000"
	"github.com/wellping/wellping-sub000/internal/logging"
	"github.com/wellping/wellping-sub000/internal/presentation/tui"
	"github.com/wellping/wellping-sub000/pkg/adapters/memory"
	"github.com/wellping/wellping-sub000/pkg/adapters/studyfile"
	"github.com/wellping/wellping-sub000/pkg/domain"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Walk one ping interactively on the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		studyPath, _ := cmd.Flags().GetString("study")
		level, _ := cmd.Flags().GetString("log-level")
		logger := logging.New(logging.ParseLevel(level))

		graph, err := studyfile.Load(studyPath)
		if err != nil {
			return err
		}

		engine := wellping.New(graph, memory.NewStore(), memory.NewLedger(),
			wellping.WithLogger(logger),
			wellping.WithFollowupQueue(memory.NewQueue()),
		)

		ctx := cmd.Context()
		ping, err := engine.StartPing(ctx)
		if err != nil {
			return err
		}
		return runPing(ctx, engine, ping)
	},
}

func init() {
	runCmd.Flags().String("study", "study.yaml", "Path to the study file")
	rootCmd.AddCommand(runCmd)
}

// runPing loops rendering the current question and reading one line of
// input until the ping completes. Empty input skips the question.
func runPing(ctx context.Context, engine *wellping.Engine, ping *wellping.Ping) error {
	renderer := tui.NewRenderer()
	scanner := bufio.NewScanner(os.Stdin)

	for !ping.Completed() {
		current, err := ping.CurrentQuestion()
		if err != nil {
			return err
		}
		fmt.Print(renderQuestion(engine, ping, renderer, current))
		fmt.Print("> ")

		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			err = ping.Skip(ctx, false)
		case strings.EqualFold(line, "pna"):
			err = ping.Skip(ctx, true)
		default:
			value, perr := parseAnswer(engine, ping, current, line)
			if perr != nil {
				fmt.Println(perr.Error())
				continue
			}
			err = ping.SubmitAnswer(ctx, value)
		}
		if err != nil {
			return err
		}
	}

	fmt.Print(renderer.Completed())
	return nil
}

func renderQuestion(engine *wellping.Engine, ping *wellping.Ping, renderer *tui.Renderer, current *wellping.CurrentQuestion) string {
	answers := ping.State().Answers
	lookup := func(id string) *domain.Answer { return answers[id] }
	core := engine.Core()

	var choices []domain.Choice
	var sliderDefault *int
	maxEntries := 0

	switch q := current.Question.(type) {
	case *domain.SliderQuestion:
		sliderDefault = core.SliderDefault(q, current.ExtraData, lookup)
	case *domain.ChoicesWithSingleAnswerQuestion:
		choices = q.Choices
	case *domain.ChoicesWithMultipleAnswersQuestion:
		choices = q.Choices
	case *domain.MultipleTextQuestion:
		maxEntries = core.MultipleTextMax(q, current.ExtraData, lookup)
	}
	return renderer.Question(current.Question, current.Text, choices, sliderDefault, maxEntries)
}

// parseAnswer converts terminal input into the payload shape for the
// current question type.
func parseAnswer(engine *wellping.Engine, ping *wellping.Ping, current *wellping.CurrentQuestion, line string) (any, error) {
	switch q := current.Question.(type) {
	case *domain.SliderQuestion:
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("enter a number")
		}
		return v, nil

	case *domain.ChoicesWithSingleAnswerQuestion:
		choice, err := pickChoice(q.Choices, line)
		if err != nil {
			return nil, err
		}
		return choice.Value, nil

	case *domain.ChoicesWithMultipleAnswersQuestion:
		var values []string
		for _, part := range strings.Split(line, ",") {
			choice, err := pickChoice(q.Choices, strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			values = append(values, choice.Value)
		}
		return values, nil

	case *domain.YesNoQuestion:
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		return nil, fmt.Errorf("answer yes or no")

	case *domain.MultipleTextQuestion:
		answers := ping.State().Answers
		lookup := func(id string) *domain.Answer { return answers[id] }
		max := engine.Core().MultipleTextMax(q, current.ExtraData, lookup)
		var values []string
		for _, part := range strings.Split(line, ",") {
			if v := strings.TrimSpace(part); v != "" {
				values = append(values, v)
			}
		}
		if len(values) > max {
			return nil, fmt.Errorf("at most %d values allowed", max)
		}
		return values, nil

	default: // HowLongAgo
		return parseHowLongAgo(line)
	}
}

func pickChoice(choices []domain.Choice, input string) (domain.Choice, error) {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1], nil
	}
	for _, ch := range choices {
		if strings.EqualFold(ch.Value, input) || strings.EqualFold(ch.Text, input) {
			return ch, nil
		}
	}
	return domain.Choice{}, fmt.Errorf("no such choice %q", input)
}

// parseHowLongAgo reads "<magnitude> <unit>" into the answer payload.
func parseHowLongAgo(line string) (any, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return nil, fmt.Errorf("answer like: 3 days")
	}
	magnitude, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("answer like: 3 days")
	}
	return map[string]any{"magnitude": magnitude, "unit": fields[1]}, nil
}
