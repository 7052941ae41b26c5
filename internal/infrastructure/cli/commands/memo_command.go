package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/cli"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/config"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/memo"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/output"
)

// MemoList is the memo.list and memo.search result.
type MemoList struct {
	Query string        `json:"query,omitempty"`
	Memos []domain.Memo `json:"memos"`
}

// NewMemoRoot builds the memo-cli command tree.
func NewMemoRoot(s *cli.Session) *cobra.Command {
	root := cli.NewRoot(s, "memo-cli", "Quick notes for Alfred")
	root.AddCommand(
		newMemoAddCommand(s),
		newMemoListCommand(s),
		newMemoSearchCommand(s),
		NewVersionCommand(s, "memo-cli"),
	)
	return root
}

// withMemoStore opens the configured store for the duration of fn.
func withMemoStore(ctx context.Context, s *cli.Session, fn func(*memo.SQLiteStore, config.MemoConfig) (output.Response, error)) (output.Response, error) {
	cfg, err := config.LoadMemo(s.Env)
	if err != nil {
		return output.Response{}, err
	}
	store, err := memo.Open(ctx, cfg.DBPath)
	if err != nil {
		return output.Response{}, err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && s.Logger != nil {
			s.Logger.Warn("close memo database", map[string]interface{}{"path": store.Path(), "error": cerr.Error()})
		}
	}()
	return fn(store, cfg)
}

func newMemoAddCommand(s *cli.Session) *cobra.Command {
	var text string
	cmd := cli.Command(s, "memo.add", "add", "Store a memo",
		func(ctx context.Context) (output.Response, error) {
			text, err := memo.NormalizeText(text)
			if err != nil {
				return output.Response{}, err
			}
			return withMemoStore(ctx, s, func(store *memo.SQLiteStore, _ config.MemoConfig) (output.Response, error) {
				m, err := store.Add(ctx, text, s.Clock()())
				if err != nil {
					return output.Response{}, err
				}
				line := "Saved memo #" + strconv.FormatInt(m.ID, 10)
				return output.Response{
					Result: m,
					Feedback: func() domain.Feedback {
						return domain.Feedback{Items: []domain.Item{{
							Title:    line,
							Subtitle: m.Text,
							Arg:      m.Text,
							UID:      memoUID(m),
						}}}
					},
					Human: cli.HumanLines(line),
				}, nil
			})
		})
	cmd.Flags().StringVar(&text, "text", "", "Memo text")
	return cmd
}

func newMemoListCommand(s *cli.Session) *cobra.Command {
	return cli.Command(s, "memo.list", "list", "List the newest memos",
		func(ctx context.Context) (output.Response, error) {
			return withMemoStore(ctx, s, func(store *memo.SQLiteStore, cfg config.MemoConfig) (output.Response, error) {
				memos, err := store.Recent(ctx, cfg.ListLimit)
				if err != nil {
					return output.Response{}, err
				}
				return memoListResponse(MemoList{Memos: memos}, s.Clock()()), nil
			})
		})
}

func newMemoSearchCommand(s *cli.Session) *cobra.Command {
	var query string
	cmd := cli.Command(s, "memo.search", "search", "Search memos by text",
		func(ctx context.Context) (output.Response, error) {
			return withMemoStore(ctx, s, func(store *memo.SQLiteStore, cfg config.MemoConfig) (output.Response, error) {
				memos, err := store.Search(ctx, query, cfg.ListLimit)
				if err != nil {
					return output.Response{}, err
				}
				return memoListResponse(MemoList{Query: query, Memos: memos}, s.Clock()()), nil
			})
		})
	cmd.Flags().StringVar(&query, "query", "", "Terms that must all appear in the memo")
	return cmd
}

func memoListResponse(list MemoList, now time.Time) output.Response {
	if list.Memos == nil {
		list.Memos = []domain.Memo{}
	}
	return output.Response{
		Result: list,
		Feedback: func() domain.Feedback {
			if len(list.Memos) == 0 {
				return domain.Feedback{Items: []domain.Item{{
					Title: "No memos found",
					Valid: domain.Bool(false),
				}}}
			}
			items := make([]domain.Item, 0, len(list.Memos))
			for _, m := range list.Memos {
				items = append(items, domain.Item{
					Title:    m.Text,
					Subtitle: "#" + strconv.FormatInt(m.ID, 10) + " · " + humanize.RelTime(m.CreatedAt, now, "ago", "from now"),
					Arg:      m.Text,
					UID:      memoUID(m),
				})
			}
			return domain.Feedback{Items: items}
		},
		Human: cli.HumanLines(memoLines(list.Memos)...),
	}
}

func memoLines(memos []domain.Memo) []string {
	if len(memos) == 0 {
		return []string{"No memos found"}
	}
	lines := make([]string, 0, len(memos))
	for _, m := range memos {
		lines = append(lines, fmt.Sprintf("%4d  %s  %s", m.ID, m.CreatedAt.Format(time.RFC3339), m.Text))
	}
	return lines
}

func memoUID(m domain.Memo) string {
	return itemUID("memo", strconv.FormatInt(m.ID, 10))
}
