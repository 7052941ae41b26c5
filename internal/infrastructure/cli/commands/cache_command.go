package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/cache"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/cli"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/output"
)

const msgNoCachedResponses = "No cached responses."

// cacheSource yields a tool's cache root and the TTL that applies to a key.
type cacheSource func() (root string, ttlFor func(key string) uint64, err error)

// CacheListing is the cache.list result.
type CacheListing struct {
	Tool    string        `json:"tool"`
	Dir     string        `json:"dir"`
	Entries []cache.Entry `json:"entries"`
}

// newCacheCommand creates the cache command with its read-only subcommands.
func newCacheCommand(s *cli.Session, tool string, source cacheSource) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect cached provider results",
	}
	cacheCmd.AddCommand(newCacheListCommand(s, tool, source))
	return cacheCmd
}

// newCacheListCommand creates the 'cache list' subcommand
func newCacheListCommand(s *cli.Session, tool string, source cacheSource) *cobra.Command {
	return cli.Command(s, "cache.list", "list", "List cache entries with their freshness",
		func(ctx context.Context) (output.Response, error) {
			root, ttlFor, err := source()
			if err != nil {
				return output.Response{}, err
			}
			fc := cache.NewFileCache(root, tool)
			entries, err := fc.Entries(s.Clock()(), ttlFor)
			if err != nil {
				return output.Response{}, domain.StorageFailure("list cache "+fc.Dir(), err)
			}
			listing := CacheListing{Tool: tool, Dir: fc.Dir(), Entries: entries}
			return output.Response{
				Result:   listing,
				Feedback: func() domain.Feedback { return cacheFeedback(listing) },
				Human:    cli.HumanLines(cacheLines(listing)...),
			}, nil
		})
}

func cacheFeedback(listing CacheListing) domain.Feedback {
	if len(listing.Entries) == 0 {
		return domain.Feedback{Items: []domain.Item{{
			Title:    msgNoCachedResponses,
			Subtitle: listing.Dir,
			Valid:    domain.Bool(false),
		}}}
	}
	items := make([]domain.Item, 0, len(listing.Entries))
	for _, e := range listing.Entries {
		items = append(items, domain.Item{
			Title:    e.Key,
			Subtitle: entrySummary(e),
			Arg:      e.Key,
			UID:      itemUID("cache", listing.Tool+"/"+e.Key),
		})
	}
	return domain.Feedback{Items: items}
}

func cacheLines(listing CacheListing) []string {
	if len(listing.Entries) == 0 {
		return []string{msgNoCachedResponses}
	}
	lines := []string{fmt.Sprintf("Cache directory: %s", listing.Dir)}
	for _, e := range listing.Entries {
		lines = append(lines, fmt.Sprintf("  %-32s %s", e.Key, entrySummary(e)))
	}
	return lines
}

func entrySummary(e cache.Entry) string {
	state := "stale"
	if e.IsFresh {
		state = "fresh"
	}
	provider := strings.TrimSpace(e.Provider)
	if provider == "" {
		provider = "unknown provider"
	}
	return fmt.Sprintf("%s · %s · age %ds", state, provider, e.AgeSecs)
}
