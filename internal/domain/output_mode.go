package domain

import "strings"

// OutputMode is the single emission switch every command consults.
type OutputMode string

const (
	OutputAlfred OutputMode = "alfred"
	OutputJSON   OutputMode = "json"
	OutputHuman  OutputMode = "human"
)

// ParseOutputMode accepts the --output, --mode and WORKFLOW_OUTPUT_MODE spellings.
func ParseOutputMode(raw string) (OutputMode, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "alfred", "alfred-json":
		return OutputAlfred, true
	case "json", "service-json":
		return OutputJSON, true
	case "human":
		return OutputHuman, true
	default:
		return "", false
	}
}
