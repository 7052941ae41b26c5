// Package cached serves cacheable lookups: fresh records short-circuit the
// providers, live results are written through, and a stale record is
// preferred over a failure.
package cached

import (
	"context"
	"errors"
	"strings"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/cache"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/provider"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/ports"
)

// Request describes one cacheable lookup.
type Request[T any] struct {
	Key      string
	TTLSecs  uint64
	Pipeline provider.Pipeline[T]
	// FailurePrefix opens the error message when nothing can be served.
	FailurePrefix string
}

// Resolution is the payload plus its provenance.
type Resolution[T any] struct {
	Payload   T
	Provider  string
	FetchedAt string
	Cache     domain.CacheMetadata
	Trace     []string
}

// Resolver binds a record store to a clock.
type Resolver[T any] struct {
	Store  ports.RecordStore[T]
	Now    ports.Clock
	Logger ports.Logger
}

// Resolve returns a fresh cache hit, a live result, or a stale fallback, in
// that order of preference.
func (r Resolver[T]) Resolve(ctx context.Context, req Request[T]) (Resolution[T], error) {
	if r.Store == nil || r.Now == nil {
		return Resolution[T]{}, errors.New("cached.Resolver dependencies not satisfied")
	}
	now := r.Now()

	record, found := r.Store.Load(req.Key)
	if found {
		freshness := cache.EvaluateFreshness(record.FetchedAt, now, req.TTLSecs)
		if freshness.IsFresh {
			r.debug("cache hit", map[string]interface{}{"key": req.Key, "age_secs": freshness.AgeSecs})
			return Resolution[T]{
				Payload:   record.Payload,
				Provider:  record.Provider,
				FetchedAt: record.FetchedAt,
				Cache:     r.metadata(domain.CacheStatusHit, req, freshness.AgeSecs),
				Trace:     []string{},
			}, nil
		}
	}

	result, err := req.Pipeline.Run(ctx)
	if err == nil {
		fresh := domain.NewCacheRecord(result.Payload, result.Provider, now)
		if err := r.Store.Save(req.Key, fresh); err != nil {
			return Resolution[T]{}, domain.StorageFailure("write cache record "+req.Key, err).
				WithDetail("key", req.Key)
		}
		return Resolution[T]{
			Payload:   result.Payload,
			Provider:  result.Provider,
			FetchedAt: fresh.FetchedAt,
			Cache:     r.metadata(domain.CacheStatusLive, req, 0),
			Trace:     result.Trace,
		}, nil
	}

	var failure *provider.Failure
	if !errors.As(err, &failure) {
		return Resolution[T]{}, err
	}

	if found {
		freshness := cache.EvaluateFreshness(record.FetchedAt, now, req.TTLSecs)
		r.debug("serving stale record", map[string]interface{}{"key": req.Key, "age_secs": freshness.AgeSecs})
		return Resolution[T]{
			Payload:   record.Payload,
			Provider:  record.Provider,
			FetchedAt: record.FetchedAt,
			Cache:     r.metadata(domain.CacheStatusStaleFallback, req, freshness.AgeSecs),
			Trace:     failure.Trace,
		}, nil
	}

	return Resolution[T]{}, FailureError(req.FailurePrefix, failure)
}

// FailureError maps a total pipeline failure onto the error taxonomy.
func FailureError(prefix string, failure *provider.Failure) *domain.AppError {
	code := domain.CodeUpstreamUnavailable
	switch {
	case failure.AllInvalidResponse():
		code = domain.CodeUpstreamInvalidPayload
	case failure.AllUnsupported():
		code = domain.CodeInvalidInput
	}

	message := prefix
	if len(failure.Trace) > 0 {
		message += " (" + domain.ProviderTraceNote + ": " + strings.Join(failure.Trace, domain.TraceSeparator) + ")"
	}

	trace := make([]string, len(failure.Trace))
	copy(trace, failure.Trace)
	appErr := &domain.AppError{
		Code:      code,
		Message:   message,
		Retryable: failure.Retryable(),
		Err:       failure,
	}
	return appErr.WithDetail("provider_trace", trace)
}

func (r Resolver[T]) metadata(status domain.CacheStatus, req Request[T], age uint64) domain.CacheMetadata {
	return domain.CacheMetadata{Status: status, Key: req.Key, TTLSecs: req.TTLSecs, AgeSecs: age}
}

func (r Resolver[T]) debug(msg string, fields map[string]interface{}) {
	if r.Logger != nil {
		r.Logger.Debug(msg, fields)
	}
}
