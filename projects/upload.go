package projects

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/andrewpaige1/codementor-api/models"
)

// binarySniffLen is how much of a file is checked for NUL bytes.
const binarySniffLen = 8000

// Upload is the result of materialising a project on disk.
type Upload struct {
	ID    string
	Dir   string
	Files []models.ProjectFile
}

// ImportZip creates a project from a ZIP archive. On failure the project
// directory is removed.
func (s *Store) ImportZip(r io.ReaderAt, size int64) (*Upload, error) {
	id, dir, err := s.Create()
	if err != nil {
		return nil, err
	}

	files, err := ExtractZip(dir, r, size, s.MaxFileSize)
	if err != nil {
		s.discard(id, dir)
		return nil, err
	}
	return &Upload{ID: id, Dir: dir, Files: files}, nil
}

// CloneRepo creates a project by cloning repoURL. On failure the project
// directory is removed.
func (s *Store) CloneRepo(ctx context.Context, repoURL string) (*Upload, error) {
	if err := ValidateRepoURL(repoURL); err != nil {
		return nil, err
	}

	id, dir, err := s.Create()
	if err != nil {
		return nil, err
	}

	if err := s.Cloner.Clone(ctx, repoURL, dir); err != nil {
		s.discard(id, dir)
		return nil, err
	}

	files, err := ReadFiles(dir, s.MaxFileSize)
	if err != nil {
		s.discard(id, dir)
		return nil, err
	}
	return &Upload{ID: id, Dir: dir, Files: files}, nil
}

// ExtractZip writes every non-directory entry of the archive under dir and
// returns the entries smaller than maxFileSize with their contents.
func ExtractZip(dir string, r io.ReaderAt, size, maxFileSize int64) ([]models.ProjectFile, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive: %w", err)
	}

	files := make([]models.ProjectFile, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}

		target, err := safeJoin(dir, f.Name)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", f.Name, err)
		}

		content, err := extractEntry(f, target, maxFileSize)
		if err != nil {
			return nil, err
		}
		if content != nil {
			files = append(files, models.ProjectFile{Name: f.Name, Content: string(content)})
		}
	}
	return files, nil
}

// extractEntry writes one entry to target. Content is returned only for
// entries under the size cap.
func extractEntry(f *zip.File, target string, maxFileSize int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", f.Name, err)
	}
	defer out.Close()

	if int64(f.UncompressedSize64) >= maxFileSize {
		if _, err := io.Copy(out, rc); err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
		return nil, nil
	}

	var buf bytes.Buffer
	if _, err := io.Copy(io.MultiWriter(out, &buf), rc); err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return buf.Bytes(), nil
}

// safeJoin joins an archive entry name onto dir, refusing names that are
// absolute or climb out of dir.
func safeJoin(dir, name string) (string, error) {
	rel := filepath.FromSlash(strings.ReplaceAll(name, `\`, "/"))
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return filepath.Join(dir, rel), nil
}

// ReadFiles reads every text file under dir smaller than maxFileSize.
// node_modules and .git are skipped, as are files with a NUL byte near the start.
func ReadFiles(dir string, maxFileSize int64) ([]models.ProjectFile, error) {
	var files []models.ProjectFile

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("ReadFiles: skipping %s: %v", p, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != dir && isExcludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() >= maxFileSize {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			log.Printf("ReadFiles: error reading %s: %v", p, err)
			return nil
		}
		if isBinary(data) {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return nil
		}
		files = append(files, models.ProjectFile{Name: filepath.ToSlash(rel), Content: string(data)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read project files: %w", err)
	}
	return files, nil
}

func isBinary(data []byte) bool {
	if len(data) > binarySniffLen {
		data = data[:binarySniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

func isExcludedDir(name string) bool {
	return name == "node_modules" || name == ".git"
}
