package provider

import (
	"context"
	"strings"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/ports"
)

// Result is a successful pipeline run.
type Result[T any] struct {
	Payload  T
	Provider string
	Trace    []string
}

// Failure is returned when every provider failed.
type Failure struct {
	Trace  []string
	Errors []*Error
}

func (f *Failure) Error() string {
	if len(f.Trace) == 0 {
		return "no providers configured"
	}
	return "all providers failed: " + strings.Join(f.Trace, domain.TraceSeparator)
}

// AllInvalidResponse reports whether every provider returned an unusable payload.
func (f *Failure) AllInvalidResponse() bool {
	return f.all(func(e *Error) bool { return e.Kind == KindInvalidResponse })
}

// AllUnsupported reports whether every provider rejected the request.
func (f *Failure) AllUnsupported() bool {
	return f.all((*Error).Unsupported)
}

// Retryable reports whether any terminal error was retryable.
func (f *Failure) Retryable() bool {
	for _, e := range f.Errors {
		if e.Retryable() {
			return true
		}
	}
	return false
}

func (f *Failure) all(pred func(*Error) bool) bool {
	if len(f.Errors) == 0 {
		return false
	}
	for _, e := range f.Errors {
		if !pred(e) {
			return false
		}
	}
	return true
}

// Pipeline tries Providers in order, each under Policy.
type Pipeline[T any] struct {
	Providers []ports.Provider[T]
	Policy    domain.RetryPolicy
	Sleeper   ports.Sleeper
	Logger    ports.Logger
}

// Run returns the first provider success together with the trace of the
// providers that failed before it.
func (p Pipeline[T]) Run(ctx context.Context) (Result[T], error) {
	trace := make([]string, 0, len(p.Providers))
	var errs []*Error

	for _, prov := range p.Providers {
		payload, perr := RunWithRetry(ctx, prov, p.Policy, p.Sleeper)
		if perr == nil {
			p.debug("provider succeeded", map[string]interface{}{"provider": prov.Name()})
			return Result[T]{Payload: payload, Provider: prov.Name(), Trace: trace}, nil
		}
		entry := prov.Name() + ": " + perr.Short()
		trace = append(trace, entry)
		errs = append(errs, perr)
		p.debug("provider failed", map[string]interface{}{"provider": prov.Name(), "error": perr.Short()})
		if ctx.Err() != nil {
			break
		}
	}
	return Result[T]{}, &Failure{Trace: trace, Errors: errs}
}

func (p Pipeline[T]) debug(msg string, fields map[string]interface{}) {
	if p.Logger != nil {
		p.Logger.Debug(msg, fields)
	}
}
