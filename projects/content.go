package projects

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/andrewpaige1/codementor-api/models"
)

// ResolvePath maps a client supplied path onto root. The path is cleaned as
// if rooted, so ".." segments can never climb above root, and symlinks that
// point outside root are refused.
func ResolvePath(root, rel string) (string, error) {
	if strings.TrimSpace(rel) == "" {
		return "", ErrPathRequired
	}

	cleaned := path.Clean("/" + strings.ReplaceAll(rel, `\`, "/"))
	full := filepath.Join(root, filepath.FromSlash(cleaned))

	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrFileNotFound
		}
		return "", fmt.Errorf("failed to resolve %s: %w", rel, err)
	}
	resolvedRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root: %w", err)
	}
	if !isWithin(resolvedRoot, resolved) {
		return "", ErrFileNotFound
	}
	return full, nil
}

func isWithin(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel == "." || filepath.IsLocal(rel)
}

// ReadFile returns the contents of one project file.
func (s *Store) ReadFile(id, rel string) (*models.FileContent, error) {
	dir, err := s.Open(id)
	if err != nil {
		return nil, err
	}

	full, err := ResolvePath(dir, rel)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(full)
	if err != nil {
		return nil, ErrFileNotFound
	}
	if info.IsDir() {
		return nil, ErrIsDirectory
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	return &models.FileContent{
		Name:     path.Base(strings.ReplaceAll(rel, `\`, "/")),
		Path:     rel,
		Content:  string(data),
		Language: DetectLanguage(rel),
	}, nil
}

// ContentETag is a strong validator for a file body.
func ContentETag(content string) string {
	return fmt.Sprintf(`"%016x"`, xxh3.HashString(content))
}
