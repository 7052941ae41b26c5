package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// FilePermissions is the default permission for cache and log files (rw-r--r--)
	FilePermissions = 0o644
)

// SubtitleMaxRunes is the code-point budget of an Alfred subtitle.
const SubtitleMaxRunes = 120

// Timeout defaults
const (
	// DefaultHTTPTimeout bounds one provider request.
	DefaultHTTPTimeout = 5 * time.Second
)

// Environment keys shared by every helper.
const (
	EnvWorkflowCache  = "ALFRED_WORKFLOW_CACHE"
	EnvWorkflowData   = "ALFRED_WORKFLOW_DATA"
	EnvOutputMode     = "WORKFLOW_OUTPUT_MODE"
	EnvConfigFile     = "WORKFLOW_CONFIG_FILE"
	EnvDebug          = "WORKFLOW_DEBUG"
	EnvHome           = "HOME"
	RedactedValue     = "[REDACTED]"
	TraceSeparator    = " | "
	ProviderTraceNote = "provider trace"
)
