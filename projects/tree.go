package projects

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andrewpaige1/codementor-api/models"
)

// Tree returns the file tree of a project.
func (s *Store) Tree(id string, beginnerLens bool) ([]*models.FileNode, error) {
	dir, err := s.Open(id)
	if err != nil {
		return nil, err
	}
	return BuildTree(dir, beginnerLens)
}

// BuildTree lists dir recursively. Directories come before files and each
// group is sorted by name, ignoring case. node_modules and .git are never
// listed.
func BuildTree(dir string, beginnerLens bool) ([]*models.FileNode, error) {
	nodes, _, err := buildTree(dir, "", beginnerLens)
	return nodes, err
}

// buildTree also reports whether dir holds any listable entry before the
// Beginner Lens is applied.
func buildTree(dir, base string, beginnerLens bool) ([]*models.FileNode, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	listable := false
	nodes := make([]*models.FileNode, 0, len(entries))
	for _, entry := range entries {
		rel := path.Join(base, entry.Name())

		if entry.IsDir() {
			if isExcludedDir(entry.Name()) {
				continue
			}
			listable = true
			if beginnerLens && HiddenByBeginnerLens(rel, true) {
				continue
			}
			children, hadEntries, err := buildTree(filepath.Join(dir, entry.Name()), rel, beginnerLens)
			if err != nil {
				return nil, false, err
			}
			// A directory emptied by the lens is hidden; one empty on disk stays.
			if beginnerLens && hadEntries && len(children) == 0 {
				continue
			}
			nodes = append(nodes, &models.FileNode{
				Name:     entry.Name(),
				Path:     rel,
				Type:     models.NodeTypeDirectory,
				Children: children,
			})
			continue
		}

		listable = true
		if beginnerLens && HiddenByBeginnerLens(rel, false) {
			continue
		}
		nodes = append(nodes, &models.FileNode{
			Name: entry.Name(),
			Path: rel,
			Type: models.NodeTypeFile,
		})
	}

	sortNodes(nodes)
	return nodes, listable, nil
}

func sortNodes(nodes []*models.FileNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Type != b.Type {
			return a.Type == models.NodeTypeDirectory
		}
		la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if la != lb {
			return la < lb
		}
		return a.Name < b.Name
	})
}
