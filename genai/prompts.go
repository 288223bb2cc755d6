package genai

import (
	"fmt"
	"strings"

	"github.com/andrewpaige1/codementor-api/models"
)

const (
	summaryFileLimit = 10
	summaryCharLimit = 2000
)

var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"ar": "Arabic",
	"ru": "Russian",
}

// LanguageName returns the English name of a language code, or the code itself.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// Languages lists the supported narration and translation languages.
func Languages() map[string]string {
	out := make(map[string]string, len(languageNames))
	for k, v := range languageNames {
		out[k] = v
	}
	return out
}

// importantFiles keeps manifests, readmes and source files, in input order.
func importantFiles(files []models.ProjectFile) []models.ProjectFile {
	var out []models.ProjectFile
	for _, f := range files {
		name := strings.ToLower(f.Name)
		switch {
		case strings.Contains(name, "package.json"),
			strings.Contains(name, "go.mod"),
			strings.Contains(name, "readme"),
			strings.HasSuffix(name, ".js"),
			strings.HasSuffix(name, ".ts"),
			strings.HasSuffix(name, ".jsx"),
			strings.HasSuffix(name, ".tsx"),
			strings.HasSuffix(name, ".go"),
			strings.HasSuffix(name, ".py"):
			out = append(out, f)
		}
		if len(out) == summaryFileLimit {
			break
		}
	}
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func SummaryPrompt(files []models.ProjectFile) string {
	var sb strings.Builder
	sb.WriteString(`Analyze this project and provide a summary with the following information:
1. Project overview in natural language
2. Detected dependencies
3. Tech stack used

Here are the project files:`)

	for _, f := range importantFiles(files) {
		fmt.Fprintf(&sb, "\n\nFile: %s\n%s", f.Name, truncateRunes(f.Content, summaryCharLimit))
	}
	return sb.String()
}

func ExplainPrompt(code, language string) string {
	lang := ""
	if language != "" {
		lang = fmt.Sprintf(" (%s)", language)
	}
	return fmt.Sprintf(`Explain this code%s concisely in 2-3 short paragraphs. Be direct, clear, and to the point. Focus only on the most important aspects. Use simple language and avoid unnecessary details:

%s`, lang, code)
}

func ChatPrompt(projectID, summary, message string) string {
	var sb strings.Builder
	sb.WriteString("You are a helpful coding mentor assistant. Answer the following question about the project:\n\n")
	fmt.Fprintf(&sb, "Project ID: %s\n", projectID)
	if summary != "" {
		fmt.Fprintf(&sb, "Project Summary:\n%s\n\n", summary)
	}
	fmt.Fprintf(&sb, "User Question: %s\n\n", message)
	sb.WriteString("Provide a clear, concise, and helpful response. If you're explaining code concepts, use simple language and examples.")
	return sb.String()
}

// QuizRequest describes the quiz to generate.
type QuizRequest struct {
	Code             string
	Language         string
	Difficulty       string
	QuestionCount    int
	FullFileAnalysis bool
}

func QuizPrompt(req QuizRequest) string {
	scope := "Focus on the most important aspects of the code."
	if req.FullFileAnalysis {
		scope = "Analyze the ENTIRE file thoroughly, not just specific snippets. Cover all important concepts, patterns, and functionality in the file."
	}

	return fmt.Sprintf(`You are an expert coding instructor. Generate a comprehensive quiz based on the following code.
The quiz should be suitable for %[1]s level programmers.

Code (%[2]s):
`+"```%[2]s\n%[3]s\n```"+`

%[4]s

Create %[5]d multiple-choice questions that test understanding of:
1. The purpose and functionality of the code
2. Key concepts demonstrated in the code
3. Potential bugs or edge cases
4. Design patterns and architectural decisions
5. Best practices and code quality aspects
6. Performance considerations
7. Security implications (if applicable)

Each question has exactly 4 options, the 0-based index of the correct option and a brief explanation of why that answer is correct.

Return the response as a JSON object with this structure:
{
  "questions": [
    {
      "question": "Question text",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": 0,
      "explanation": "Explanation of the correct answer"
    }
  ]
}

IMPORTANT: Generate EXACTLY %[5]d questions. Make sure the questions cover different aspects of the code and vary in difficulty.`,
		req.Difficulty, req.Language, req.Code, scope, req.QuestionCount)
}

func VisualPrompt(code, language string) string {
	return fmt.Sprintf(`You are an expert software visualization tool. Your task is to analyze the provided code and generate a beginner-friendly visual representation of its logic flow with every code logic represented by a code block.

CODE (%[1]s):
`+"```%[1]s\n%[2]s\n```"+`

Create a flowchart or diagram that explains the control flow and logic of this code.

Return ONLY a JSON object with the following structure:
{
  "nodes": [
    {
      "id": "unique-id",
      "position": { "x": 0, "y": 0 },
      "data": { "label": "Node Label Text" },
      "style": { "background": "color", "border": "color", "width": 180, "borderRadius": 8 }
    }
  ],
  "edges": [
    {
      "id": "unique-id",
      "source": "source-node-id",
      "target": "target-node-id",
      "label": "optional label",
      "animated": false,
      "style": { "stroke": "color" }
    }
  ],
  "title": "Brief title describing the visualization",
  "description": "Short explanation of what this diagram shows"
}

IMPORTANT GUIDELINES:
1. Position nodes in a logical flow (top-to-bottom or left-to-right)
2. Start x,y positions at (0,0) and space nodes at least 150px apart
3. Keep node labels concise but descriptive
4. Use different node styles/colors for different types of operations
5. Include conditional branches, loops, and function calls
6. Make sure all node IDs are unique
7. Ensure every edge connects existing nodes
8. The diagram should be complete but not overly complex`, language, code)
}

func TranslatePrompt(text, language string) string {
	return fmt.Sprintf("Translate the following text to %s. Provide only the translated text without any explanations or additional content:\n\n%s",
		LanguageName(language), text)
}
