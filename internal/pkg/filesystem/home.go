package filesystem

import (
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading "~" and any "$HOME" / "${HOME}" token using
// home. The path is returned unchanged when home is empty.
func ExpandHome(path, home string) string {
	if home == "" {
		return path
	}
	path = strings.ReplaceAll(path, "${HOME}", home)
	path = strings.ReplaceAll(path, "$HOME", home)
	switch {
	case path == "~":
		return home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	}
	return path
}
