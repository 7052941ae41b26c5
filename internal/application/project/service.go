// Package project ranks local git projects by recent use.
package project

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/config"
	projectinfra "github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/project"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/ports"
)

// Service searches projects and records their use.
type Service struct {
	Config config.ProjectConfig
	Now    ports.Clock
	Logger ports.Logger
}

// Search lists projects whose name contains every query term, most recently
// used first, then by name.
func (s *Service) Search(query string) ([]domain.Project, error) {
	projects, err := projectinfra.Scanner{MaxDepth: s.Config.MaxDepth, Logger: s.Logger}.Scan(s.Config.Roots)
	if err != nil {
		return nil, err
	}
	usage, err := projectinfra.LoadUsage(s.Config.UsageFile)
	if err != nil {
		return nil, err
	}

	terms := strings.Fields(strings.ToLower(query))
	matched := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if !matches(strings.ToLower(p.Name), terms) {
			continue
		}
		if when, ok := usage.LastUsed(p.Path); ok {
			p.LastUsed = &when
		}
		matched = append(matched, p)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i].LastUsed, matched[j].LastUsed
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return strings.ToLower(matched[i].Name) < strings.ToLower(matched[j].Name)
	})
	return matched, nil
}

// Record marks path as used now. The path must be an existing directory.
func (s *Service) Record(path string) (domain.Project, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return domain.Project{}, domain.InvalidInput("--path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.Project{}, domain.InvalidInput("invalid --path value %q", path)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return domain.Project{}, domain.InvalidInput("project directory %s does not exist", abs)
	}

	usage, err := projectinfra.LoadUsage(s.Config.UsageFile)
	if err != nil {
		return domain.Project{}, err
	}
	now := s.clock()().Truncate(time.Second)
	if err := usage.Record(abs, now); err != nil {
		return domain.Project{}, err
	}
	return domain.Project{Name: filepath.Base(abs), Path: abs, LastUsed: &now}, nil
}

func matches(name string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(name, term) {
			return false
		}
	}
	return true
}

func (s *Service) clock() ports.Clock {
	if s.Now != nil {
		return s.Now
	}
	return time.Now
}
