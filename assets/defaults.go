package assets

import (
	_ "embed"
)

// DefaultSettingsYAML contains the embedded default workflow settings.
//
//go:embed defaults/settings.yaml
var DefaultSettingsYAML []byte
