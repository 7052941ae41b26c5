// Package project indexes git working trees and remembers when each was
// last opened.
package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/ports"
)

// Scanner walks configured roots looking for directories that hold a .git
// directory. The walk does not descend into a project once found.
type Scanner struct {
	MaxDepth int
	Logger   ports.Logger
}

// Scan returns projects under roots keyed by absolute path and sorted by
// path. Missing roots are skipped.
func (s Scanner) Scan(roots []string) ([]domain.Project, error) {
	found := map[string]domain.Project{}
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		if err := s.walk(abs, found); err != nil {
			return nil, domain.StorageFailure("scan "+abs, err)
		}
	}

	projects := make([]domain.Project, 0, len(found))
	for _, p := range found {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Path < projects[j].Path })
	return projects, nil
}

func (s Scanner) walk(root string, found map[string]domain.Project) error {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		s.debug("skipping project root", map[string]interface{}{"root": root})
		return nil
	}

	rootDepth := depth(root)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return fs.SkipDir
			}
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if isRepo(path) {
			found[path] = domain.Project{Name: filepath.Base(path), Path: path}
			return fs.SkipDir
		}
		if depth(path)-rootDepth >= s.maxDepth() {
			return fs.SkipDir
		}
		return nil
	})
}

func (s Scanner) maxDepth() int {
	if s.MaxDepth < 1 {
		return 1
	}
	return s.MaxDepth
}

func isRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

func depth(path string) int {
	return strings.Count(filepath.Clean(path), string(filepath.Separator))
}

func (s Scanner) debug(msg string, fields map[string]interface{}) {
	if s.Logger != nil {
		s.Logger.Debug(msg, fields)
	}
}
