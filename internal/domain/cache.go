package domain

import (
	"math"
	"time"
)

// CacheStatus describes how a cacheable result was produced.
type CacheStatus string

const (
	CacheStatusLive          CacheStatus = "live"
	CacheStatusHit           CacheStatus = "cache_hit"
	CacheStatusStaleFallback CacheStatus = "cache_stale_fallback"
)

// CacheRecord is the single JSON document persisted per cache key.
// FetchedAt stays a string so that a damaged timestamp degrades to a stale
// record instead of a decode failure.
type CacheRecord[T any] struct {
	Payload   T      `json:"payload"`
	Provider  string `json:"provider"`
	FetchedAt string `json:"fetched_at"`
}

// NewCacheRecord stamps payload with the provider name and fetch instant.
func NewCacheRecord[T any](payload T, provider string, fetchedAt time.Time) CacheRecord[T] {
	return CacheRecord[T]{
		Payload:   payload,
		Provider:  provider,
		FetchedAt: fetchedAt.UTC().Format(time.RFC3339),
	}
}

// ParseFetchedAt parses a record timestamp. ok is false when the value is not
// RFC 3339.
func ParseFetchedAt(value string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// Freshness is the derived age view of a cache record.
type Freshness struct {
	AgeSecs uint64 `json:"age_secs"`
	IsFresh bool   `json:"is_fresh"`
}

// CacheMetadata is embedded in every cacheable success payload.
type CacheMetadata struct {
	Status  CacheStatus `json:"status"`
	Key     string      `json:"key"`
	TTLSecs uint64      `json:"ttl_secs"`
	AgeSecs uint64      `json:"age_secs"`
}

// RetryPolicy bounds attempts per provider.
type RetryPolicy struct {
	MaxAttempts   int    `json:"max_attempts"`
	BaseBackoffMS uint64 `json:"base_backoff_ms"`
}

const maxBackoffExponent = 8

// BackoffMillis returns the sleep before attempt n (1-indexed).
// Attempt 1 never sleeps; later attempts double from the base, capped at
// 2^8 times the base and saturating at math.MaxUint64.
func (p RetryPolicy) BackoffMillis(attempt int) uint64 {
	if attempt <= 1 || p.BaseBackoffMS == 0 {
		return 0
	}
	exp := attempt - 2
	if exp > maxBackoffExponent {
		exp = maxBackoffExponent
	}
	if p.BaseBackoffMS > math.MaxUint64>>uint(exp) {
		return math.MaxUint64
	}
	return p.BaseBackoffMS << uint(exp)
}

// Backoff is BackoffMillis as a time.Duration, saturating at the largest duration.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	ms := p.BackoffMillis(attempt)
	if ms > uint64(math.MaxInt64/int64(time.Millisecond)) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ms) * time.Millisecond
}

// Attempts returns MaxAttempts with a floor of one.
func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func redactEntries(entries []string, redact func(string) string) []string {
	out := make([]string, len(entries))
	for i, entry := range entries {
		out[i] = redact(entry)
	}
	return out
}
