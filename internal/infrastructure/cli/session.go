package cli

import (
	"io"
	"net/http"
	"time"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/output"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/security"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/ports"
)

// Session is everything one helper invocation needs from the outside world.
// Tests build one directly with buffers, a fixed clock and a no-op sleeper.
type Session struct {
	Stdout io.Writer
	Stderr io.Writer
	// Env is the layered settings view (defaults, settings file, environment).
	Env domain.Env
	// ConfigErr is a settings-file failure, reported once a command runs so
	// that it can be rendered in the requested output mode.
	ConfigErr  error
	Now        ports.Clock
	Sleeper    ports.Sleeper
	IsTerminal bool
	Redactor   *security.Redactor
	Logger     ports.Logger
	// Transport overrides the HTTP transport of every client built here.
	Transport http.RoundTripper

	flags    OutputFlags
	exitCode int
}

// HTTPClient returns a client bounded by timeout.
func (s *Session) HTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = domain.DefaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout, Transport: s.Transport}
}

// Clock returns the session clock, defaulting to time.Now.
func (s *Session) Clock() ports.Clock {
	if s.Now != nil {
		return s.Now
	}
	return time.Now
}

// ExitCode is the status recorded by the last emitted response.
func (s *Session) ExitCode() int {
	return s.exitCode
}

func (s *Session) emitter() output.Emitter {
	return output.Emitter{Stdout: s.Stdout, Stderr: s.Stderr, Redactor: s.Redactor}
}
