package domain

import "strings"

// Env is a flat view of configuration pairs (process environment layered
// over settings files). Config loaders are pure functions of an Env.
type Env map[string]string

// EnvFromPairs converts os.Environ style KEY=VALUE strings.
func EnvFromPairs(pairs []string) Env {
	env := make(Env, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// Get returns the value for key, or "" when unset.
func (e Env) Get(key string) string {
	if e == nil {
		return ""
	}
	return e[key]
}

// Lookup returns the trimmed value and whether it is non-blank.
func (e Env) Lookup(key string) (string, bool) {
	value := strings.TrimSpace(e.Get(key))
	return value, value != ""
}

// Merge returns a new Env where entries of over win over e.
func (e Env) Merge(over Env) Env {
	merged := make(Env, len(e)+len(over))
	for k, v := range e {
		merged[k] = v
	}
	for k, v := range over {
		merged[k] = v
	}
	return merged
}
