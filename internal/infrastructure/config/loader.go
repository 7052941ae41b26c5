package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/graysurf/nils-alfredworkflow-sub001/assets"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/pkg/filesystem"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/ports"
)

const settingsFileName = "settings.yaml"

// settingsFile is the YAML schema root.
type settingsFile struct {
	Settings map[string]interface{} `yaml:"settings"`
}

// FileLoader layers embedded defaults, an optional settings file and the
// process environment, later layers winning.
type FileLoader struct {
	overridePath string
	environ      domain.Env
	defaults     []byte
}

// NewFileLoader builds a loader over environ. path overrides the settings
// file location when non-empty.
func NewFileLoader(path string, environ domain.Env) *FileLoader {
	return &FileLoader{
		overridePath: path,
		environ:      environ,
		defaults:     assets.DefaultSettingsYAML,
	}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Env, error) {
	base, err := parseSettings(l.defaults)
	if err != nil {
		return nil, fmt.Errorf("embedded settings: %w", err)
	}

	path := l.Path()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			fileEnv, err := parseSettings(data)
			if err != nil {
				return nil, domain.InvalidInput("invalid settings file %s: %v", path, err).
					WithDetail("path", path)
			}
			base = base.Merge(fileEnv)
		case errors.Is(err, fs.ErrNotExist):
			// optional
		default:
			return nil, domain.StorageFailure("read settings file "+path, err)
		}
	}

	return base.Merge(l.environ), nil
}

// Path resolves the settings file: explicit override, WORKFLOW_CONFIG_FILE,
// then settings.yaml under ALFRED_WORKFLOW_DATA. Empty when none applies.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return ExpandPath(l.environ, l.overridePath)
	}
	if custom, ok := l.environ.Lookup(domain.EnvConfigFile); ok {
		return ExpandPath(l.environ, custom)
	}
	if data, ok := l.environ.Lookup(domain.EnvWorkflowData); ok {
		return filepath.Join(ExpandPath(l.environ, data), settingsFileName)
	}
	return ""
}

func parseSettings(data []byte) (domain.Env, error) {
	var file settingsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	env := make(domain.Env, len(file.Settings))
	for key, value := range file.Settings {
		if value == nil {
			env[key] = ""
			continue
		}
		env[key] = fmt.Sprint(value)
	}
	return env, nil
}

// ExpandPath expands "~" and "$HOME" in path when HOME is set in env.
func ExpandPath(env domain.Env, path string) string {
	home, _ := env.Lookup(domain.EnvHome)
	return filepath.Clean(filesystem.ExpandHome(path, home))
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
