package provider

import (
	"context"
	"time"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/ports"
)

// ContextSleeper sleeps for d or until ctx is done.
var ContextSleeper ports.Sleeper = ports.SleeperFunc(func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
})

// NoSleep returns immediately.
var NoSleep ports.Sleeper = ports.SleeperFunc(func(context.Context, time.Duration) error { return nil })

// RunWithRetry calls p.FetchOnce up to policy.Attempts() times. It stops at
// the first success, the first non-retryable error, or context cancellation,
// and returns the last classified error otherwise.
func RunWithRetry[T any](ctx context.Context, p ports.Provider[T], policy domain.RetryPolicy, sleeper ports.Sleeper) (T, *Error) {
	var zero T
	if sleeper == nil {
		sleeper = ContextSleeper
	}

	var last *Error
	for attempt := 1; attempt <= policy.Attempts(); attempt++ {
		if delay := policy.Backoff(attempt); delay > 0 {
			if err := sleeper.Sleep(ctx, delay); err != nil {
				if last == nil {
					last = Transport(err)
				}
				return zero, last
			}
		}

		payload, err := p.FetchOnce(ctx)
		if err == nil {
			return payload, nil
		}
		last = Classify(err)
		if !last.Retryable() || ctx.Err() != nil {
			return zero, last
		}
	}
	return zero, last
}
