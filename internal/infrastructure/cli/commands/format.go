package commands

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
)

// uidNamespace scopes the deterministic Alfred item uids of this suite.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/graysurf/nils-alfredworkflow"))

// itemUID derives a stable Alfred uid so Alfred can learn result ordering.
func itemUID(kind, key string) string {
	return uuid.NewSHA1(uidNamespace, []byte(kind+":"+key)).String()
}

// cacheNote describes where a cacheable result came from, e.g. "live" or
// "cached 5 minutes ago".
func cacheNote(meta domain.CacheMetadata, fetchedAt string, now time.Time) string {
	switch meta.Status {
	case domain.CacheStatusLive:
		return "live"
	case domain.CacheStatusStaleFallback:
		return "stale, cached " + ageText(fetchedAt, meta.AgeSecs, now)
	default:
		return "cached " + ageText(fetchedAt, meta.AgeSecs, now)
	}
}

func ageText(fetchedAt string, ageSecs uint64, now time.Time) string {
	if fetched, ok := domain.ParseFetchedAt(fetchedAt); ok {
		return humanize.RelTime(fetched, now, "ago", "from now")
	}
	return humanize.RelTime(now.Add(-time.Duration(ageSecs)*time.Second), now, "ago", "from now")
}

// groupDigits renders a decimal string with thousands separators.
func groupDigits(decimal string) string {
	v, err := strconv.ParseFloat(decimal, 64)
	if err != nil {
		return decimal
	}
	return humanize.Commaf(v)
}
