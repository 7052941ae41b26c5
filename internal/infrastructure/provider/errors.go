// Package provider runs ordered upstream providers under a retry policy and
// records a trace of every provider that failed along the way.
package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a single provider failure.
type ErrorKind int

const (
	KindTransport ErrorKind = iota
	KindHTTP
	KindInvalidResponse
	KindUnsupportedPair
	KindUnsupportedInput
)

func (k ErrorKind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindInvalidResponse:
		return "invalid_response"
	case KindUnsupportedPair:
		return "unsupported_pair"
	case KindUnsupportedInput:
		return "unsupported_input"
	default:
		return "transport"
	}
}

// Error is the typed failure of one provider attempt.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

// Transport wraps a network-level failure.
func Transport(err error) *Error {
	return &Error{Kind: KindTransport, Message: err.Error(), Err: err}
}

// HTTPStatus reports a non-2xx response.
func HTTPStatus(status int, message string) *Error {
	return &Error{Kind: KindHTTP, Status: status, Message: message}
}

// InvalidResponse reports a payload that could not be interpreted.
func InvalidResponse(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidResponse, Message: fmt.Sprintf(format, args...)}
}

// UnsupportedPair reports a market pair the provider does not quote.
func UnsupportedPair(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnsupportedPair, Message: fmt.Sprintf(format, args...)}
}

// UnsupportedInput reports a query the provider cannot answer.
func UnsupportedInput(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnsupportedInput, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Short()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt at the same provider may succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTransport:
		return true
	case KindHTTP:
		switch {
		case e.Status == http.StatusRequestTimeout,
			e.Status == http.StatusTooEarly,
			e.Status == http.StatusTooManyRequests,
			e.Status >= 500 && e.Status <= 599:
			return true
		}
	}
	return false
}

// Unsupported reports whether the provider rejected the request itself.
func (e *Error) Unsupported() bool {
	return e.Kind == KindUnsupportedPair || e.Kind == KindUnsupportedInput
}

// Short renders the one-line form used in provider traces.
func (e *Error) Short() string {
	switch e.Kind {
	case KindHTTP:
		if e.Message == "" {
			return fmt.Sprintf("HTTP %d", e.Status)
		}
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	case KindInvalidResponse:
		return "invalid response: " + e.Message
	case KindUnsupportedPair:
		return "unsupported pair: " + e.Message
	case KindUnsupportedInput:
		return "unsupported input: " + e.Message
	default:
		return "transport error: " + e.Message
	}
}

// Classify converts any error into a provider Error. Unclassified errors are
// treated as transport failures.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}
	return Transport(err)
}
