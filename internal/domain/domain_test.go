package domain

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

func TestRetryPolicyBackoff(t *testing.T) {
	tests := []struct {
		name    string
		policy  RetryPolicy
		attempt int
		want    uint64
	}{
		{name: "first attempt never sleeps", policy: RetryPolicy{BaseBackoffMS: 200}, attempt: 1, want: 0},
		{name: "second attempt uses base", policy: RetryPolicy{BaseBackoffMS: 200}, attempt: 2, want: 200},
		{name: "doubles", policy: RetryPolicy{BaseBackoffMS: 200}, attempt: 4, want: 800},
		{name: "exponent capped at eight", policy: RetryPolicy{BaseBackoffMS: 1}, attempt: 50, want: 256},
		{name: "zero base", policy: RetryPolicy{}, attempt: 5, want: 0},
		{name: "saturates", policy: RetryPolicy{BaseBackoffMS: math.MaxUint64 / 2}, attempt: 10, want: math.MaxUint64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.BackoffMillis(tt.attempt); got != tt.want {
				t.Fatalf("BackoffMillis(%d) = %d, want %d", tt.attempt, got, tt.want)
			}
		})
	}

	if got := (RetryPolicy{BaseBackoffMS: math.MaxUint64}).Backoff(3); got != time.Duration(math.MaxInt64) {
		t.Fatalf("Backoff should saturate, got %v", got)
	}
	if got := (RetryPolicy{MaxAttempts: 0}).Attempts(); got != 1 {
		t.Fatalf("Attempts() = %d, want 1", got)
	}
}

func TestCacheRecordTimestamps(t *testing.T) {
	at := time.Date(2026, 2, 10, 21, 0, 0, 0, time.FixedZone("TPE", 8*3600))
	rec := NewCacheRecord(42, "frankfurter", at)
	if rec.FetchedAt != "2026-02-10T13:00:00Z" {
		t.Fatalf("FetchedAt = %q", rec.FetchedAt)
	}
	if got, ok := ParseFetchedAt(rec.FetchedAt); !ok || !got.Equal(at) {
		t.Fatalf("ParseFetchedAt() = %v, %v", got, ok)
	}

	if _, ok := ParseFetchedAt("yesterday"); ok {
		t.Fatal("expected an unparseable timestamp to be rejected")
	}
}

func TestErrorCodeKinds(t *testing.T) {
	tests := []struct {
		code ErrorCode
		exit int
	}{
		{CodeInvalidInput, ExitUser},
		{CodeMissingCredential, ExitUser},
		{CodeOutputModeConflict, ExitUser},
		{CodeReadmeNotFound, ExitUser},
		{CodeRemoteImageNotAllowed, ExitUser},
		{CodeUpstreamUnavailable, ExitRuntime},
		{CodeUpstreamInvalidPayload, ExitRuntime},
		{CodeStorageFailure, ExitRuntime},
		{CodeInternal, ExitRuntime},
	}
	for _, tt := range tests {
		if got := tt.code.Kind().ExitCode(); got != tt.exit {
			t.Errorf("%s exit = %d, want %d", tt.code, got, tt.exit)
		}
	}
}

func TestAsAppError(t *testing.T) {
	if AsAppError(nil) != nil {
		t.Fatal("nil error should stay nil")
	}

	wrapped := fmt.Errorf("loading: %w", InvalidInput("bad %s", "value"))
	if got := AsAppError(wrapped); got.Code != CodeInvalidInput || got.Message != "bad value" {
		t.Fatalf("unexpected %+v", got)
	}

	plain := AsAppError(errors.New("boom"))
	if plain.Code != CodeInternal || plain.Kind() != KindRuntime {
		t.Fatalf("unclassified error should be runtime.internal, got %+v", plain)
	}

	detailed := StorageFailure("write cache", errors.New("disk full")).WithDetail("key", "fx-usd-twd")
	if detailed.Details["key"] != "fx-usd-twd" || !errors.Is(detailed, detailed.Err) {
		t.Fatalf("unexpected %+v", detailed)
	}
}

func TestParseOutputMode(t *testing.T) {
	tests := map[string]OutputMode{
		"alfred":       OutputAlfred,
		"alfred-json":  OutputAlfred,
		" JSON ":       OutputJSON,
		"service-json": OutputJSON,
		"human":        OutputHuman,
	}
	for raw, want := range tests {
		if got, ok := ParseOutputMode(raw); !ok || got != want {
			t.Errorf("ParseOutputMode(%q) = %q, %v", raw, got, ok)
		}
	}
	if _, ok := ParseOutputMode("yaml"); ok {
		t.Fatal("yaml is not an output mode")
	}
}

func TestEnvFromPairs(t *testing.T) {
	env := EnvFromPairs([]string{"A=1", "B=x=y", "=skip", "NOEQ", "C=  "})
	if env.Get("A") != "1" || env.Get("B") != "x=y" || len(env) != 3 {
		t.Fatalf("unexpected env %v", env)
	}
	if _, ok := env.Lookup("C"); ok {
		t.Fatal("blank value should not be reported as set")
	}
	merged := env.Merge(Env{"A": "2"})
	if merged.Get("A") != "2" || env.Get("A") != "1" {
		t.Fatal("Merge must not mutate the receiver and must prefer the overlay")
	}
}
