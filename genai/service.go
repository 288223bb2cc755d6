package genai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/andrewpaige1/codementor-api/cache"
	"github.com/andrewpaige1/codementor-api/models"
)

// SummaryFallback is returned when the project could not be summarised.
const SummaryFallback = "Failed to analyze project. Please try again."

// translateMaxOutputTokens bounds a translation reply.
const translateMaxOutputTokens = 4096

// Mentor turns project files and code snippets into summaries, explanations,
// quizzes, diagrams and translations. Explanations and translations go
// through the cache first.
type Mentor struct {
	gen   Generator
	cache *cache.Cache
}

func NewMentor(gen Generator, c *cache.Cache) *Mentor {
	return &Mentor{gen: gen, cache: c}
}

// Summarize never fails: upstream errors yield SummaryFallback.
func (m *Mentor) Summarize(ctx context.Context, files []models.ProjectFile) string {
	text, err := m.gen.GenerateContent(ctx, SummaryPrompt(files))
	if err != nil {
		log.Printf("Summarize: error analyzing project: %v", err)
		return SummaryFallback
	}
	return text
}

// Explain returns the explanation of code and whether it came from the cache.
// Failed generations are not cached.
func (m *Mentor) Explain(ctx context.Context, code, language string) (string, bool, error) {
	if explanation, ok := m.cache.GetExplanation(ctx, code, language); ok {
		return explanation, true, nil
	}

	explanation, err := m.gen.GenerateContent(ctx, ExplainPrompt(code, language))
	if err != nil {
		return "", false, fmt.Errorf("failed to explain code: %w", err)
	}

	if err := m.cache.SetExplanation(ctx, code, language, explanation); err != nil {
		log.Printf("Explain: failed to cache explanation: %v", err)
	}
	return explanation, false, nil
}

func (m *Mentor) Chat(ctx context.Context, projectID, summary, message string) (string, error) {
	return m.gen.GenerateContent(ctx, ChatPrompt(projectID, summary, message))
}

func (m *Mentor) Quiz(ctx context.Context, req QuizRequest) (*models.Quiz, error) {
	text, err := m.gen.GenerateContent(ctx, QuizPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("failed to generate quiz: %w", err)
	}
	quiz, err := ParseQuiz(text)
	if err != nil {
		log.Printf("Quiz: unparseable response: %.200s", text)
		return nil, err
	}
	return quiz, nil
}

func (m *Mentor) Visualize(ctx context.Context, code, language string) (*models.Diagram, error) {
	text, err := m.gen.GenerateContent(ctx, VisualPrompt(code, language))
	if err != nil {
		return nil, fmt.Errorf("failed to generate visual explanation: %w", err)
	}
	diagram, err := ParseVisualization(text)
	if err != nil {
		log.Printf("Visualize: unparseable response: %.200s", text)
		return nil, err
	}
	return diagram, nil
}

// Translate returns text in the target language. English input is returned
// as is, and so is the original text when translation fails.
func (m *Mentor) Translate(ctx context.Context, text, language string) string {
	if language == "" || language == "en" || strings.TrimSpace(text) == "" {
		return text
	}

	if translated, ok := m.cache.GetTranslation(ctx, text, language); ok {
		return translated
	}

	translated, err := m.gen.GenerateContent(ctx, TranslatePrompt(text, language), WithTemperature(0.2), WithMaxOutputTokens(translateMaxOutputTokens))
	if err != nil {
		log.Printf("Translate: falling back to original text: %v", err)
		return text
	}
	translated = strings.TrimSpace(translated)

	if err := m.cache.SetTranslation(ctx, text, language, translated); err != nil {
		log.Printf("Translate: failed to cache translation: %v", err)
	}
	return translated
}
