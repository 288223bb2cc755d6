package projects

import (
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

var languageByExtension = map[string]string{
	"js":   "javascript",
	"jsx":  "javascript",
	"mjs":  "javascript",
	"cjs":  "javascript",
	"ts":   "typescript",
	"tsx":  "typescript",
	"py":   "python",
	"rb":   "ruby",
	"java": "java",
	"html": "html",
	"css":  "css",
	"json": "json",
	"md":   "markdown",
	"txt":  "text",
	"go":   "go",
	"rs":   "rust",
	"c":    "c",
	"h":    "c",
	"cpp":  "cpp",
	"cs":   "csharp",
	"php":  "php",
	"sh":   "shell",
	"yml":  "yaml",
	"yaml": "yaml",
	"sql":  "sql",
}

// DetectLanguage infers the editor language of a file from its name.
// Known extensions map directly; anything else is matched against the
// syntax highlighter's lexer registry before falling back to the extension.
func DetectLanguage(filePath string) string {
	name := path.Base(strings.ReplaceAll(filePath, `\`, "/"))
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")

	if lang, ok := languageByExtension[ext]; ok {
		return lang
	}

	if lexer := lexers.Match(name); lexer != nil {
		cfg := lexer.Config()
		if len(cfg.Aliases) > 0 {
			return cfg.Aliases[0]
		}
		return strings.ToLower(cfg.Name)
	}

	if ext != "" {
		return ext
	}
	return "text"
}
