package projects

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/codementor-api/models"
)

type zipEntry struct {
	name    string
	content string
}

func buildZip(t *testing.T, entries ...zipEntry) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		if !strings.HasSuffix(e.name, "/") {
			_, err = w.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return bytes.NewReader(buf.Bytes())
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

type fakeCloner struct {
	files map[string]string
	err   error
}

func (f *fakeCloner) Clone(_ context.Context, _ string, dir string) error {
	if f.err != nil {
		return f.err
	}
	for name, content := range f.files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func TestValidateProjectID(t *testing.T) {
	valid := []string{"project_1", "project_1714557600000"}
	for _, id := range valid {
		assert.NoError(t, ValidateProjectID(id), id)
	}

	invalid := []string{"", "project_", "project_12a", "../project_1", "project_1/..", "Project_1", "project_-1", "project_1\n"}
	for _, id := range invalid {
		assert.ErrorIs(t, ValidateProjectID(id), ErrInvalidProjectID, id)
	}
}

func TestStore_NewProjectIDIsMonotonic(t *testing.T) {
	s := NewStore(t.TempDir(), 0, nil)
	fixed := time.UnixMilli(1714557600000)
	s.now = func() time.Time { return fixed }

	assert.Equal(t, "project_1714557600000", s.NewProjectID())
	assert.Equal(t, "project_1714557600001", s.NewProjectID())
	assert.Equal(t, "project_1714557600002", s.NewProjectID())
}

func TestStore_ImportZip(t *testing.T) {
	s := NewStore(t.TempDir(), 16, nil)

	archive := buildZip(t,
		zipEntry{name: "src/"},
		zipEntry{name: "src/main.go", content: "package main"},
		zipEntry{name: "README.md", content: "# demo"},
		zipEntry{name: "src/util/strings.go", content: "package util"},
		zipEntry{name: "assets/big.txt", content: strings.Repeat("x", 64)},
	)

	upload, err := s.ImportZip(archive, archive.Size())
	require.NoError(t, err)
	require.NoError(t, ValidateProjectID(upload.ID))

	// Four file entries, one over the size cap.
	assert.Len(t, upload.Files, 3)
	names := make([]string, 0, len(upload.Files))
	for _, f := range upload.Files {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"src/main.go", "README.md", "src/util/strings.go"}, names)

	big, err := os.ReadFile(filepath.Join(upload.Dir, "assets", "big.txt"))
	require.NoError(t, err)
	assert.Len(t, big, 64)
}

func TestStore_ImportZipRejectsEscapingEntries(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root, 0, nil)

	archive := buildZip(t,
		zipEntry{name: "ok.txt", content: "fine"},
		zipEntry{name: "../evil.txt", content: "nope"},
	)

	_, err := s.ImportZip(archive, archive.Size())
	assert.ErrorIs(t, err, ErrUnsafePath)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial project directory should be removed")
	assert.NoFileExists(t, filepath.Join(filepath.Dir(root), "evil.txt"))
}

func TestStore_ImportZipRejectsGarbage(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root, 0, nil)

	data := bytes.NewReader([]byte("not a zip"))
	_, err := s.ImportZip(data, data.Size())
	assert.Error(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_CloneRepo(t *testing.T) {
	s := NewStore(t.TempDir(), 0, &fakeCloner{files: map[string]string{
		"main.go":             "package main",
		"node_modules/x/a.js": "ignored",
		".git/HEAD":           "ref: refs/heads/main",
		"docs/guide.md":       "# guide",
		"bin/tool":            "\x00\x01binary",
	}})

	upload, err := s.CloneRepo(context.Background(), "https://github.com/example/demo.git")
	require.NoError(t, err)

	names := make([]string, 0, len(upload.Files))
	for _, f := range upload.Files {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"main.go", "docs/guide.md"}, names)
}

func TestStore_CloneRepoFailureCleansUp(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root, 0, &fakeCloner{err: errors.New("repository not found")})

	_, err := s.CloneRepo(context.Background(), "https://github.com/example/missing.git")
	assert.Error(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = s.CloneRepo(context.Background(), "--upload-pack=touch /tmp/x")
	assert.ErrorIs(t, err, ErrInvalidRepoURL)
}

func TestValidateRepoURL(t *testing.T) {
	valid := []string{
		"https://github.com/example/demo.git",
		"http://git.example.com/demo",
		"ssh://git@github.com/example/demo.git",
		"git://example.com/demo.git",
		"git@github.com:example/demo.git",
	}
	for _, u := range valid {
		assert.NoError(t, ValidateRepoURL(u), u)
	}

	invalid := []string{"", "-oProxyCommand=evil", "file:///etc", "/local/path", "ftp://example.com/x", "https://"}
	for _, u := range invalid {
		assert.ErrorIs(t, ValidateRepoURL(u), ErrInvalidRepoURL, u)
	}
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hello")
	writeFile(t, dir, "large.txt", strings.Repeat("y", 100))
	writeFile(t, dir, "image.png", "\x89PNG\x00\x00")
	writeFile(t, dir, "node_modules/pkg/index.js", "module.exports = 1")
	writeFile(t, dir, ".git/config", "[core]")
	writeFile(t, dir, "nested/deep/b.go", "package deep")

	files, err := ReadFiles(dir, 50)
	require.NoError(t, err)

	got := map[string]string{}
	for _, f := range files {
		got[f.Name] = f.Content
	}
	assert.Equal(t, map[string]string{
		"a.txt":            "hello",
		"nested/deep/b.go": "package deep",
	}, got)
}

func TestBuildTree(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zeta.go", "")
	writeFile(t, dir, "Alpha.go", "")
	writeFile(t, dir, "beta.go", "")
	writeFile(t, dir, "src/app.ts", "")
	writeFile(t, dir, "Docs/index.md", "")
	writeFile(t, dir, "node_modules/left-pad/index.js", "")
	writeFile(t, dir, ".git/HEAD", "")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))

	nodes, err := BuildTree(dir, false)
	require.NoError(t, err)

	var names []string
	for _, n := range nodes {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"Docs", "empty", "src", "Alpha.go", "beta.go", "zeta.go"}, names)

	src := nodes[2]
	assert.Equal(t, "directory", src.Type)
	require.Len(t, src.Children, 1)
	assert.Equal(t, "src/app.ts", src.Children[0].Path)
	assert.Equal(t, "file", src.Children[0].Type)
}

func TestBuildTreeBeginnerLens(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.py", "")
	writeFile(t, dir, "package-lock.json", "")
	writeFile(t, dir, "readme.MD", "")
	writeFile(t, dir, "app.min.js", "")
	writeFile(t, dir, "dist/bundle.js", "")
	writeFile(t, dir, "src/__pycache__/main.cpython-311.pyc", "")
	writeFile(t, dir, "src/lib.py", "")
	writeFile(t, dir, "bootstrap/cache/packages.php", "")
	writeFile(t, dir, "bootstrap/app.php", "")
	writeFile(t, dir, "config/tsconfig.json", "")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))

	plain, err := BuildTree(dir, false)
	require.NoError(t, err)
	assert.Len(t, plain, 9)

	nodes, err := BuildTree(dir, true)
	require.NoError(t, err)

	var paths []string
	collectPaths(nodes, &paths)
	// config only held filtered files; assets was empty to begin with.
	assert.ElementsMatch(t, []string{"assets", "bootstrap", "bootstrap/app.php", "src", "src/lib.py", "main.py"}, paths)
	assert.NotContains(t, paths, "config")
}

func collectPaths(nodes []*models.FileNode, out *[]string) {
	for _, n := range nodes {
		*out = append(*out, n.Path)
		collectPaths(n.Children, out)
	}
}

func TestHiddenByBeginnerLens(t *testing.T) {
	assert.True(t, HiddenByBeginnerLens("Build", true))
	assert.True(t, HiddenByBeginnerLens("app/Vendor/lib", true))
	assert.True(t, HiddenByBeginnerLens(`laravel\bootstrap\cache`, true))
	assert.False(t, HiddenByBeginnerLens("bootstrap", true))
	assert.False(t, HiddenByBeginnerLens("src", true))

	assert.True(t, HiddenByBeginnerLens("web/Tsconfig.json", false))
	assert.True(t, HiddenByBeginnerLens("server.log", false))
	assert.False(t, HiddenByBeginnerLens("dist", false))
	assert.False(t, HiddenByBeginnerLens("main.go", false))
}

func TestResolvePath(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "project_1")
	writeFile(t, parent, "secret.txt", "outside")
	writeFile(t, root, "secret.txt", "inside")
	writeFile(t, root, "src/main.go", "package main")

	tests := []struct {
		rel  string
		want string
	}{
		{"src/main.go", filepath.Join(root, "src", "main.go")},
		{"../secret.txt", filepath.Join(root, "secret.txt")},
		{"../../../secret.txt", filepath.Join(root, "secret.txt")},
		{"src/../../secret.txt", filepath.Join(root, "secret.txt")},
		{`..\secret.txt`, filepath.Join(root, "secret.txt")},
		{"/secret.txt", filepath.Join(root, "secret.txt")},
	}
	for _, tt := range tests {
		got, err := ResolvePath(root, tt.rel)
		require.NoError(t, err, tt.rel)
		assert.Equal(t, tt.want, got, tt.rel)
	}

	_, err := ResolvePath(root, "")
	assert.ErrorIs(t, err, ErrPathRequired)

	_, err = ResolvePath(root, "../../missing.txt")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestResolvePathRefusesEscapingSymlink(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "project_1")
	writeFile(t, parent, "secret.txt", "outside")
	require.NoError(t, os.MkdirAll(root, 0o755))
	if err := os.Symlink(filepath.Join(parent, "secret.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := ResolvePath(root, "link.txt")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestStore_ReadFile(t *testing.T) {
	s := NewStore(t.TempDir(), 0, nil)
	id, dir, err := s.Create()
	require.NoError(t, err)
	writeFile(t, dir, "src/App.tsx", "export default function App() {}")

	content, err := s.ReadFile(id, "src/App.tsx")
	require.NoError(t, err)
	assert.Equal(t, "App.tsx", content.Name)
	assert.Equal(t, "src/App.tsx", content.Path)
	assert.Equal(t, "typescript", content.Language)
	assert.Equal(t, "export default function App() {}", content.Content)

	_, err = s.ReadFile(id, "src")
	assert.ErrorIs(t, err, ErrIsDirectory)

	_, err = s.ReadFile(id, "src/missing.ts")
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = s.ReadFile(id, "")
	assert.ErrorIs(t, err, ErrPathRequired)

	_, err = s.ReadFile("../etc", "passwd")
	assert.ErrorIs(t, err, ErrInvalidProjectID)

	_, err = s.ReadFile("project_42", "a.txt")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestStore_Remove(t *testing.T) {
	s := NewStore(t.TempDir(), 0, nil)
	id, dir, err := s.Create()
	require.NoError(t, err)

	require.NoError(t, s.Remove(id))
	assert.NoDirExists(t, dir)
	assert.ErrorIs(t, s.Remove(id), ErrProjectNotFound)
}

func TestDetectLanguage(t *testing.T) {
	tests := map[string]string{
		"index.js":       "javascript",
		"App.JSX":        "javascript",
		"src/main.ts":    "typescript",
		"tool.py":        "python",
		"Gemfile.rb":     "ruby",
		"Main.java":      "java",
		"server/main.go": "go",
		"notes.txt":      "text",
		"README.md":      "markdown",
		"data.qqqzzz":    "qqqzzz",
		`win\style.css`:  "css",
	}
	for input, want := range tests {
		assert.Equal(t, want, DetectLanguage(input), input)
	}

	assert.Contains(t, []string{"docker", "dockerfile"}, DetectLanguage("Dockerfile"))
}

func TestContentETag(t *testing.T) {
	a := ContentETag("package main")
	assert.Equal(t, a, ContentETag("package main"))
	assert.NotEqual(t, a, ContentETag("package util"))
	assert.Len(t, a, 18)
	assert.True(t, strings.HasPrefix(a, `"`) && strings.HasSuffix(a, `"`))
}
