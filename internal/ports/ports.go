// Package ports defines the interfaces (ports) between the workflow helpers'
// application core and their adapters.
//
// The application layer (cache orchestration, market and weather services)
// depends only on these abstractions; HTTP providers, the disk cache, the
// settings loader and the logger live in the infrastructure layer.
package ports

import (
	"context"
	"time"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
)

// ConfigProvider loads the layered settings (embedded defaults, settings file,
// process environment) as flat key/value pairs.
type ConfigProvider interface {
	Load(context.Context) (domain.Env, error)
}

// Provider is one named upstream capable of producing a payload of type T.
// Each call is a single attempt; retries are the pipeline's job.
type Provider[T any] interface {
	Name() string
	FetchOnce(ctx context.Context) (T, error)
}

// RecordStore persists one cache record per key.
type RecordStore[T any] interface {
	Load(key string) (domain.CacheRecord[T], bool)
	Save(key string, record domain.CacheRecord[T]) error
}

// Sleeper waits between retry attempts. Tests inject a no-op.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep implements Sleeper.
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// Clock returns the current instant.
type Clock func() time.Time

// Redactor masks credential material in text bound for output streams.
type Redactor interface {
	Redact(text string) string
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stderr, files).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
