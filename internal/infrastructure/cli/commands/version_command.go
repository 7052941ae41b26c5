package commands

import (
	"context"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/cli"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/output"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/version"
)

// BuildInfo is the version result.
type BuildInfo struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
}

// NewVersionCommand reports the build metadata of tool.
func NewVersionCommand(s *cli.Session, tool string) *cobra.Command {
	return cli.Command(s, "version", "version", "Show version information",
		func(context.Context) (output.Response, error) {
			info := BuildInfo{
				Tool:      tool,
				Version:   version.Version,
				Commit:    version.Commit,
				BuildDate: version.BuildDate,
				GoVersion: runtime.Version(),
			}
			headline := info.Tool + " version " + info.Version
			lines := []string{headline}
			if info.Commit != "" {
				lines = append(lines, "Commit: "+info.Commit)
			}
			if info.BuildDate != "" {
				lines = append(lines, "Built: "+info.BuildDate)
			}
			lines = append(lines, "Go version: "+info.GoVersion)

			return output.Response{
				Result: info,
				Feedback: func() domain.Feedback {
					return domain.Feedback{Items: []domain.Item{{
						Title:    headline,
						Subtitle: info.GoVersion,
						Arg:      info.Version,
						Valid:    domain.Bool(false),
					}}}
				},
				Human: cli.HumanLines(lines...),
			}, nil
		})
}
