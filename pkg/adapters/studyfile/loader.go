// Package studyfile loads survey stream definitions from YAML or JSON
// study files and validates graph closure before the engine ever sees
// them. The engine assumes validated graphs; this package is where that
// guarantee is made.
package studyfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wellping/wellping-sub000/pkg/domain"
)

type streamFile struct {
	StreamName       string `json:"streamName" yaml:"streamName"`
	StartingQuestion string `json:"startingQuestion" yaml:"startingQuestion"`
}

type jsonStreamFile struct {
	streamFile
	Questions []json.RawMessage `json:"questions"`
}

type yamlStreamFile struct {
	streamFile `yaml:",inline"`
	Questions  []yaml.Node `yaml:"questions"`
}

// Load reads, parses, and validates a study file. The format is chosen by
// extension: .json is parsed as JSON, everything else as YAML.
func Load(path string) (*domain.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading study file: %w", err)
	}
	var graph *domain.Graph
	if strings.EqualFold(filepath.Ext(path), ".json") {
		graph, err = ParseJSON(data)
	} else {
		graph, err = ParseYAML(data)
	}
	if err != nil {
		return nil, err
	}
	if err := Validate(graph); err != nil {
		return nil, fmt.Errorf("invalid study file %s: %w", path, err)
	}
	return graph, nil
}

// ParseJSON parses a stream definition from JSON without validating it.
func ParseJSON(data []byte) (*domain.Graph, error) {
	var file jsonStreamFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing stream definition: %w", err)
	}
	graph := &domain.Graph{
		StreamName:         file.StreamName,
		StartingQuestionID: file.StartingQuestion,
		Questions:          make(map[string]domain.Question, len(file.Questions)),
	}
	for i, raw := range file.Questions {
		q, err := domain.DecodeQuestionJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		if _, dup := graph.Questions[q.QuestionID()]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.QuestionID())
		}
		graph.Questions[q.QuestionID()] = q
	}
	return graph, nil
}

// ParseYAML parses a stream definition from YAML without validating it.
func ParseYAML(data []byte) (*domain.Graph, error) {
	var file yamlStreamFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing stream definition: %w", err)
	}
	graph := &domain.Graph{
		StreamName:         file.StreamName,
		StartingQuestionID: file.StartingQuestion,
		Questions:          make(map[string]domain.Question, len(file.Questions)),
	}
	for i := range file.Questions {
		q, err := domain.DecodeQuestionYAML(&file.Questions[i])
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		if _, dup := graph.Questions[q.QuestionID()]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.QuestionID())
		}
		graph.Questions[q.QuestionID()] = q
	}
	return graph, nil
}
