// Package cli runs a helper's cobra tree against a Session and turns every
// outcome into exactly one rendered response and an exit code.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/infrastructure/output"
)

// commandIDKey is the cobra annotation holding a command's envelope id.
const commandIDKey = "command"

// Handler produces one command's response.
type Handler func(ctx context.Context) (output.Response, error)

// NewRoot builds a helper root command with the shared output flags.
func NewRoot(s *Session, use, short string) *cobra.Command {
	root := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	s.flags.Register(root)
	return root
}

// Command builds a leaf command whose RunE renders handler's result.
func Command(s *Session, id, use, short string, handler Handler) *cobra.Command {
	return &cobra.Command{
		Use:         use,
		Short:       short,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{commandIDKey: id},
		RunE: func(cmd *cobra.Command, args []string) error {
			s.Run(cmd.Context(), id, handler)
			return nil
		},
	}
}

// Run resolves the output mode, runs handler and emits its outcome.
func (s *Session) Run(ctx context.Context, id string, handler Handler) {
	mode, err := s.flags.Resolve(s.Env, s.IsTerminal)
	if err != nil {
		s.exitCode = s.emitter().EmitError(mode, id, err)
		return
	}
	if s.ConfigErr != nil {
		s.exitCode = s.emitter().EmitError(mode, id, s.ConfigErr)
		return
	}

	resp, err := handler(ctx)
	resp.Command = id
	if err != nil && s.Logger != nil {
		s.Logger.Debug("command failed", map[string]interface{}{"command": id, "error": err.Error()})
	}
	s.exitCode = s.emitter().Emit(mode, resp, err)
}

// Execute runs root with args. Flag and argument errors are user errors,
// rendered in whatever output mode the parsed flags select.
func Execute(ctx context.Context, root *cobra.Command, s *Session, args []string) int {
	root.SetArgs(args)
	root.SetOut(s.Stdout)
	root.SetErr(s.Stderr)
	s.exitCode = domain.ExitOK

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return s.exitCode
	}

	id := root.Name()
	if cmd != nil && cmd.Annotations[commandIDKey] != "" {
		id = cmd.Annotations[commandIDKey]
	}
	mode, modeErr := s.flags.Resolve(s.Env, s.IsTerminal)
	if modeErr != nil && mode != domain.OutputJSON {
		mode = domain.OutputAlfred
	}
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		err = &domain.AppError{Code: domain.CodeInvalidInput, Message: err.Error(), Err: err}
	}
	return s.emitter().EmitError(mode, id, err)
}

// HumanLines adapts a list of lines to output.Response.Human.
func HumanLines(lines ...string) func(io.Writer) error {
	return func(w io.Writer) error {
		for _, line := range lines {
			if _, err := io.WriteString(w, line+"\n"); err != nil {
				return err
			}
		}
		return nil
	}
}
