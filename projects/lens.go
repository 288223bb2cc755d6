package projects

import "strings"

// Names hidden by the Beginner Lens. Matching is case-insensitive.
var (
	lensDirectories = []string{
		"node_modules", "dist", "build", "coverage", ".git", ".vscode", "__pycache__",
		".venv", "env", "vendor", "storage", "bootstrap/cache", "target", "out", "bin",
		"obj", "migrations", ".pytest_cache", ".idea", "public",
	}

	lensFiles = []string{
		"package-lock.json", "yarn.lock", ".env", ".eslintrc", ".prettierrc",
		"babel.config.js", "webpack.config.js", "rollup.config.js", "tsconfig.json",
		"jest.config.js", ".gitignore", "LICENSE", ".DS_Store", "Thumbs.db",
		"composer.lock", ".project", ".classpath", "README.md", "build_output.txt",
		"next.config.js", "next.config.ts", "next.config.mjs", "next.config.cjs",
		"postcss.config.js", "postcss.config.mjs", "postcss.config.cjs",
		"tailwind.config.js", "tailwind.config.ts", "tailwind.config.mjs", "tailwind.config.cjs",
		"vercel.json", "eslint.config.js", "eslint.config.ts", "eslint.config.mjs", "eslint.config.cjs",
	}

	lensExtensions = []string{
		".min.js", ".map", ".pyc", ".pyo", ".pyd", ".class", ".jar", ".war",
		".dll", ".exe", ".pdb", ".user", ".suo", ".log",
	}
)

// HiddenByBeginnerLens reports whether a tree entry at relPath is hidden when
// the Beginner Lens is on. A directory is hidden when any segment of its path
// is a filtered name or its path contains a multi-segment pattern; a file is
// hidden by name or extension.
func HiddenByBeginnerLens(relPath string, isDir bool) bool {
	normalized := strings.ToLower(strings.ReplaceAll(relPath, `\`, "/"))
	parts := strings.Split(normalized, "/")

	if isDir {
		for _, dir := range lensDirectories {
			dir = strings.ToLower(dir)
			if strings.Contains(dir, "/") {
				if strings.Contains(normalized, dir) {
					return true
				}
				continue
			}
			for _, part := range parts {
				if part == dir {
					return true
				}
			}
		}
		return false
	}

	name := parts[len(parts)-1]
	for _, file := range lensFiles {
		if name == strings.ToLower(file) {
			return true
		}
	}
	for _, ext := range lensExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
