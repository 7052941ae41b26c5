package commands

import (
	"context"
	"net/url"

	"github.com/spf13/cobra"

	bilibiliapp "github.com/graysurf/nils-alfredworkflow-sub001/internal/application/bilibili"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/cli"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/config"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/output"
)

const bilibiliSearchURL = "https://search.bilibili.com/all?keyword="

// SuggestionResult is the bilibili.query result.
type SuggestionResult struct {
	Query       string              `json:"query"`
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// NewBilibiliRoot builds the bilibili-cli command tree.
func NewBilibiliRoot(s *cli.Session) *cobra.Command {
	root := cli.NewRoot(s, "bilibili-cli", "bilibili search suggestions for Alfred")
	root.AddCommand(newBilibiliQueryCommand(s), NewVersionCommand(s, "bilibili-cli"))
	return root
}

func newBilibiliQueryCommand(s *cli.Session) *cobra.Command {
	var query string
	cmd := cli.Command(s, "bilibili.query", "query", "Suggest bilibili searches for a term",
		func(ctx context.Context) (output.Response, error) {
			resp := output.Response{DegradeErrors: true}
			cfg, err := config.LoadBilibili(s.Env)
			if err != nil {
				return resp, err
			}
			svc := &bilibiliapp.Service{
				Config:     cfg,
				HTTPClient: s.HTTPClient(cfg.Timeout),
				Sleeper:    s.Sleeper,
				Logger:     s.Logger,
			}
			suggestions, err := svc.Query(ctx, query)
			if err != nil {
				return resp, err
			}
			result := SuggestionResult{Query: query, Suggestions: suggestions}
			resp.Result = result
			resp.Feedback = func() domain.Feedback { return suggestionFeedback(result) }
			resp.Human = cli.HumanLines(suggestionLines(result)...)
			return resp, nil
		})
	cmd.Flags().StringVar(&query, "query", "", "Search term")
	return cmd
}

func suggestionFeedback(result SuggestionResult) domain.Feedback {
	if len(result.Suggestions) == 0 {
		return domain.Feedback{Items: []domain.Item{{
			Title:    "No suggestions",
			Subtitle: "Search bilibili for " + result.Query,
			Arg:      bilibiliSearchURL + url.QueryEscape(result.Query),
		}}}
	}
	items := make([]domain.Item, 0, len(result.Suggestions))
	for _, sug := range result.Suggestions {
		items = append(items, domain.Item{
			Title:        sug.Value,
			Subtitle:     "Search bilibili for " + sug.Value,
			Arg:          bilibiliSearchURL + url.QueryEscape(sug.Value),
			Autocomplete: sug.Value,
		})
	}
	return domain.Feedback{Items: items}
}

func suggestionLines(result SuggestionResult) []string {
	if len(result.Suggestions) == 0 {
		return []string{"No suggestions"}
	}
	lines := make([]string, 0, len(result.Suggestions))
	for _, sug := range result.Suggestions {
		lines = append(lines, sug.Value)
	}
	return lines
}
