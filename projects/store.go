package projects

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"
	"time"
)

// DefaultMaxFileSize is the per-file cap for reading project files into memory.
const DefaultMaxFileSize int64 = 1_000_000

const idPrefix = "project_"

var (
	ErrInvalidProjectID = errors.New("invalid project ID format")
	ErrProjectNotFound  = errors.New("project not found")
	ErrPathRequired     = errors.New("file path is required")
	ErrIsDirectory      = errors.New("path is a directory, not a file")
	ErrFileNotFound     = errors.New("file not found")
	ErrUnsafePath       = errors.New("archive entry escapes the project directory")
	ErrInvalidRepoURL   = errors.New("invalid repository URL")
)

var projectIDPattern = regexp.MustCompile(`^project_\d+$`)

// ValidateProjectID rejects anything that is not project_<digits>.
func ValidateProjectID(id string) error {
	if !projectIDPattern.MatchString(id) {
		return ErrInvalidProjectID
	}
	return nil
}

// Cloner fetches a remote repository into an existing, empty directory.
type Cloner interface {
	Clone(ctx context.Context, repoURL, dir string) error
}

// Store owns the on-disk layout of projects: one directory per project id
// under Root.
type Store struct {
	Root        string
	MaxFileSize int64
	Cloner      Cloner

	mu     sync.Mutex
	lastID int64
	now    func() time.Time
}

func NewStore(root string, maxFileSize int64, cloner Cloner) *Store {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Store{
		Root:        root,
		MaxFileSize: maxFileSize,
		Cloner:      cloner,
		now:         time.Now,
	}
}

// NewProjectID returns project_<unix millis>. Ids handed out by one Store are
// strictly increasing even when two uploads land in the same millisecond.
func (s *Store) NewProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return idPrefix + strconv.FormatInt(id, 10)
}

// Dir returns the directory of a project without checking that it exists.
func (s *Store) Dir(id string) (string, error) {
	if err := ValidateProjectID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.Root, id), nil
}

// Create allocates a new id and makes its directory.
func (s *Store) Create() (string, string, error) {
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create projects root: %w", err)
	}

	for attempt := 0; attempt < 5; attempt++ {
		id := s.NewProjectID()
		dir := filepath.Join(s.Root, id)
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", fmt.Errorf("failed to create project directory: %w", err)
		}
	}
	return "", "", fmt.Errorf("failed to allocate a project directory under %s", s.Root)
}

// Open returns the directory of an existing project.
func (s *Store) Open(id string) (string, error) {
	dir, err := s.Dir(id)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", ErrProjectNotFound
	}
	return dir, nil
}

func (s *Store) Remove(id string) error {
	dir, err := s.Open(id)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// discard removes a partially populated project after a failed upload.
func (s *Store) discard(id, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		log.Printf("projects: failed to clean up %s: %v", id, err)
	}
}
