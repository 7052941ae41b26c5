package app

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/cli"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/config"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/provider"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/security"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/pkg/logger"
)

// NewSession wires one helper invocation: layered settings, the redactor,
// the logger and the real clock and sleeper. A settings failure is kept on
// the session and reported by the first command that runs.
func NewSession(ctx context.Context, stdout, stderr io.Writer, environ []string) *cli.Session {
	processEnv := domain.EnvFromPairs(environ)
	env, cfgErr := config.NewFileLoader("", processEnv).Load(ctx)
	if cfgErr != nil {
		env = processEnv
	}

	redactor := security.NewRedactor(env)
	return &cli.Session{
		Stdout:     stdout,
		Stderr:     stderr,
		Env:        env,
		ConfigErr:  cfgErr,
		Now:        time.Now,
		Sleeper:    provider.ContextSleeper,
		IsTerminal: isTerminal(stdout),
		Redactor:   redactor,
		Logger:     logger.NewWithWriter(config.ParseBool(env, domain.EnvDebug), stderr, redactor),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
