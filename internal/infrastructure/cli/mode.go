package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
)

// OutputFlags are the output selectors shared by every helper.
type OutputFlags struct {
	Output string
	JSON   bool
	Mode   string
}

// Register binds the flags as persistent flags of root.
func (f *OutputFlags) Register(root *cobra.Command) {
	root.PersistentFlags().StringVar(&f.Output, "output", "", "Output format: human, json or alfred-json")
	root.PersistentFlags().BoolVar(&f.JSON, "json", false, "Shorthand for --output json")
	root.PersistentFlags().StringVar(&f.Mode, "mode", "", "Output mode: alfred or service-json")
}

type modeRequest struct {
	source string
	mode   domain.OutputMode
}

// Resolve reduces the flags, WORKFLOW_OUTPUT_MODE and the terminal check to
// one mode. On error the returned mode is the one the error should be
// rendered in: json when any selector asked for json, alfred otherwise.
func (f OutputFlags) Resolve(env domain.Env, isTerminal bool) (domain.OutputMode, error) {
	var requests []modeRequest
	var invalid error

	if raw := strings.TrimSpace(f.Output); raw != "" {
		switch strings.ToLower(raw) {
		case "human":
			requests = append(requests, modeRequest{"--output " + raw, domain.OutputHuman})
		case "json":
			requests = append(requests, modeRequest{"--output " + raw, domain.OutputJSON})
		case "alfred-json":
			requests = append(requests, modeRequest{"--output " + raw, domain.OutputAlfred})
		default:
			invalid = domain.InvalidInput("invalid --output value %q: expected human, json or alfred-json", raw)
		}
	}
	if f.JSON {
		requests = append(requests, modeRequest{"--json", domain.OutputJSON})
	}
	if raw := strings.TrimSpace(f.Mode); raw != "" {
		switch strings.ToLower(raw) {
		case "alfred":
			requests = append(requests, modeRequest{"--mode " + raw, domain.OutputAlfred})
		case "service-json":
			requests = append(requests, modeRequest{"--mode " + raw, domain.OutputJSON})
		default:
			invalid = domain.InvalidInput("invalid --mode value %q: expected alfred or service-json", raw)
		}
	}

	fallback := domain.OutputAlfred
	for _, r := range requests {
		if r.mode == domain.OutputJSON {
			fallback = domain.OutputJSON
		}
	}
	if invalid != nil {
		return fallback, invalid
	}

	for i := 1; i < len(requests); i++ {
		if requests[i].mode != requests[0].mode {
			return fallback, domain.UserError(domain.CodeOutputModeConflict,
				"conflicting output selectors: %s and %s", requests[0].source, requests[i].source)
		}
	}
	if len(requests) > 0 {
		return requests[0].mode, nil
	}

	if raw, ok := env.Lookup(domain.EnvOutputMode); ok {
		mode, ok := domain.ParseOutputMode(raw)
		if !ok {
			return domain.OutputAlfred, domain.InvalidInput("invalid %s value %q", domain.EnvOutputMode, raw)
		}
		return mode, nil
	}
	if isTerminal {
		return domain.OutputHuman, nil
	}
	return domain.OutputAlfred, nil
}
