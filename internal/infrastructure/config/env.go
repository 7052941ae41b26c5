package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
)

// ParseClampedInt reads key as an integer clamped to [min, max]. Blank values
// yield def; non-integers are a user error carrying the literal.
func ParseClampedInt(env domain.Env, key string, def, min, max int) (int, error) {
	raw, ok := env.Lookup(key)
	if !ok {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.InvalidInput("invalid %s value %q: expected an integer", key, raw).
			WithDetail("key", key)
	}
	if value < min {
		return min, nil
	}
	if value > max {
		return max, nil
	}
	return value, nil
}

// ParseTTLSecs reads a TTL override. Blank, non-numeric and zero values all
// revert to def.
func ParseTTLSecs(env domain.Env, key string, def uint64) uint64 {
	raw, ok := env.Lookup(key)
	if !ok {
		return def
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return def
	}
	return value
}

// ParseAlphaCode reads a two-letter ASCII code (e.g. a country code) and
// upper-cases it. Blank values yield def.
func ParseAlphaCode(env domain.Env, key, def string) (string, error) {
	raw, ok := env.Lookup(key)
	if !ok {
		return def, nil
	}
	code := strings.ToUpper(raw)
	if !isAlpha(code, 2) {
		return "", domain.InvalidInput("invalid %s value %q: expected a 2-letter code", key, raw).
			WithDetail("key", key)
	}
	return code, nil
}

// ParseCurrencyCode upper-cases and validates a currency or asset symbol
// given on the command line: 2 to 10 ASCII letters or digits. Callers that
// need ISO currency codes check the length themselves.
func ParseCurrencyCode(flag, raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", domain.InvalidInput("--%s is required", flag)
	}
	if !isAlphaNum(code) || len(code) < 2 || len(code) > 10 {
		return "", domain.InvalidInput("invalid --%s value %q: expected a currency or asset symbol", flag, raw)
	}
	return code, nil
}

// ResolveCacheRoot picks the cache root: the helper's own key, then
// ALFRED_WORKFLOW_CACHE, ALFRED_WORKFLOW_DATA, and finally the OS temp dir.
func ResolveCacheRoot(env domain.Env, domainKey string) string {
	for _, key := range []string{domainKey, domain.EnvWorkflowCache, domain.EnvWorkflowData} {
		if key == "" {
			continue
		}
		if value, ok := env.Lookup(key); ok {
			return ExpandPath(env, value)
		}
	}
	return os.TempDir()
}

// ResolveDataPath places name under ALFRED_WORKFLOW_DATA (or the temp dir)
// unless key overrides it.
func ResolveDataPath(env domain.Env, key, name string) string {
	if value, ok := env.Lookup(key); ok {
		return ExpandPath(env, value)
	}
	if data, ok := env.Lookup(domain.EnvWorkflowData); ok {
		return filepath.Join(ExpandPath(env, data), name)
	}
	return filepath.Join(os.TempDir(), name)
}

// ParseBool treats 1/true/yes/on (any case) as true.
func ParseBool(env domain.Env, key string) bool {
	raw, _ := env.Lookup(key)
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func isAlpha(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

func isAlphaNum(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
