package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	projectapp "github.com/graysurf/nils-alfredworkflow-sub001/internal/application/project"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/cli"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/config"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/output"
)

// ProjectList is the project.search result.
type ProjectList struct {
	Query    string           `json:"query"`
	Projects []domain.Project `json:"projects"`
}

// NewProjectRoot builds the project-cli command tree.
func NewProjectRoot(s *cli.Session) *cobra.Command {
	root := cli.NewRoot(s, "project-cli", "Open local git projects from Alfred")
	root.AddCommand(
		newProjectSearchCommand(s),
		newProjectRecordCommand(s),
		NewVersionCommand(s, "project-cli"),
	)
	return root
}

func newProjectService(s *cli.Session) (*projectapp.Service, error) {
	cfg, err := config.LoadProject(s.Env)
	if err != nil {
		return nil, err
	}
	return &projectapp.Service{Config: cfg, Now: s.Clock(), Logger: s.Logger}, nil
}

func newProjectSearchCommand(s *cli.Session) *cobra.Command {
	var query string
	cmd := cli.Command(s, "project.search", "search", "Find projects by name",
		func(ctx context.Context) (output.Response, error) {
			svc, err := newProjectService(s)
			if err != nil {
				return output.Response{}, err
			}
			projects, err := svc.Search(query)
			if err != nil {
				return output.Response{}, err
			}
			list := ProjectList{Query: query, Projects: projects}
			now := s.Clock()()
			return output.Response{
				Result:   list,
				Feedback: func() domain.Feedback { return projectFeedback(list, now) },
				Human:    cli.HumanLines(projectLines(list, now)...),
			}, nil
		})
	cmd.Flags().StringVar(&query, "query", "", "Terms that must all appear in the project name")
	return cmd
}

func newProjectRecordCommand(s *cli.Session) *cobra.Command {
	var path string
	cmd := cli.Command(s, "project.record", "record", "Mark a project as just used",
		func(ctx context.Context) (output.Response, error) {
			svc, err := newProjectService(s)
			if err != nil {
				return output.Response{}, err
			}
			p, err := svc.Record(path)
			if err != nil {
				return output.Response{}, err
			}
			line := "Recorded " + p.Path
			return output.Response{
				Result: p,
				Feedback: func() domain.Feedback {
					return domain.Feedback{Items: []domain.Item{{Title: line, Arg: p.Path, UID: itemUID("project", p.Path)}}}
				},
				Human: cli.HumanLines(line),
			}, nil
		})
	cmd.Flags().StringVar(&path, "path", "", "Project directory")
	return cmd
}

func projectFeedback(list ProjectList, now time.Time) domain.Feedback {
	if len(list.Projects) == 0 {
		return domain.Feedback{Items: []domain.Item{{
			Title: "No projects found",
			Valid: domain.Bool(false),
		}}}
	}
	items := make([]domain.Item, 0, len(list.Projects))
	for _, p := range list.Projects {
		items = append(items, domain.Item{
			Title:        p.Name,
			Subtitle:     projectSubtitle(p, now),
			Arg:          p.Path,
			Autocomplete: p.Name,
			UID:          itemUID("project", p.Path),
		})
	}
	return domain.Feedback{Items: items}
}

func projectSubtitle(p domain.Project, now time.Time) string {
	if p.LastUsed == nil {
		return p.Path
	}
	return p.Path + " · used " + humanize.RelTime(*p.LastUsed, now, "ago", "from now")
}

func projectLines(list ProjectList, now time.Time) []string {
	if len(list.Projects) == 0 {
		return []string{"No projects found"}
	}
	lines := make([]string, 0, len(list.Projects))
	for _, p := range list.Projects {
		lines = append(lines, fmt.Sprintf("%-24s %s", p.Name, projectSubtitle(p, now)))
	}
	return lines
}
