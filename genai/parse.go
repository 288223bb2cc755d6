package genai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/andrewpaige1/codementor-api/models"
)

var (
	ErrNoJSON         = errors.New("no JSON object found in model response")
	ErrInvalidQuiz    = errors.New("invalid quiz data structure")
	ErrInvalidDiagram = errors.New("invalid visualization data structure")
)

var (
	jsonFence   = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	anyFence    = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)\\s*```")
	outerObject = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON finds the JSON document in a model answer. It tries a ```json
// fence, any fence, the outermost braces and finally the whole text, and
// returns the first candidate that is valid JSON.
func ExtractJSON(text string) (string, error) {
	var candidates []string
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := anyFence.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := outerObject.FindString(text); m != "" {
		candidates = append(candidates, m)
	}
	candidates = append(candidates, strings.TrimSpace(text))

	for _, c := range candidates {
		if c != "" && json.Valid([]byte(c)) {
			return c, nil
		}
	}
	return "", ErrNoJSON
}

func ParseQuiz(text string) (*models.Quiz, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Questions *[]models.QuizQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuiz, err)
	}
	if parsed.Questions == nil || len(*parsed.Questions) == 0 {
		return nil, ErrInvalidQuiz
	}
	return &models.Quiz{Questions: *parsed.Questions}, nil
}

func ParseVisualization(text string) (*models.Diagram, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Nodes       *[]models.FlowNode `json:"nodes"`
		Edges       *[]models.FlowEdge `json:"edges"`
		Title       string             `json:"title"`
		Description string             `json:"description"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDiagram, err)
	}
	if parsed.Nodes == nil || parsed.Edges == nil {
		return nil, ErrInvalidDiagram
	}
	return &models.Diagram{
		Nodes:       *parsed.Nodes,
		Edges:       *parsed.Edges,
		Title:       parsed.Title,
		Description: parsed.Description,
	}, nil
}
