package security

import (
	"regexp"
	"sort"
	"strings"

	"github.com/graysurf/nils-alfredworkflow-sub001/internal/domain"
	"github.com/graysurf/nils-alfredworkflow-sub001/internal/ports"
)

// CredentialKeys are the environment variables whose values are always masked.
var CredentialKeys = []string{
	"BILIBILI_UID",
	"SPOTIFY_CLIENT_ID",
	"SPOTIFY_CLIENT_SECRET",
	"YOUTUBE_API_KEY",
}

var credentialSuffixes = []string{"_SECRET", "_TOKEN", "_API_KEY", "_PASSWORD"}

type compiledPattern struct {
	re          *regexp.Regexp
	replacement string
}

// Credential shapes masked regardless of configuration. Group 1 keeps the
// key so that the output still says what was hidden.
var defaultPatterns = []compiledPattern{
	{re: regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-._~+/]+=*`), replacement: "${1}" + domain.RedactedValue},
	{re: regexp.MustCompile(`(?i)(client_secret=)[^&\s"']+`), replacement: "${1}" + domain.RedactedValue},
	{re: regexp.MustCompile(`(?i)((?:access_|refresh_)?token=)[^&\s"']+`), replacement: "${1}" + domain.RedactedValue},
	{re: regexp.MustCompile(`(?i)((?:api_?key|key)=)[^&\s"']+`), replacement: "${1}" + domain.RedactedValue},
}

// Redactor masks credential material in error messages, details and log
// lines. It is the single projection every output path goes through.
type Redactor struct {
	patterns []compiledPattern
	secrets  []string
}

// NewRedactor collects secret values from env: the fixed CredentialKeys,
// any key with a credential suffix, and the extra keys given.
func NewRedactor(env domain.Env, extraKeys ...string) *Redactor {
	keys := map[string]struct{}{}
	for _, key := range CredentialKeys {
		keys[key] = struct{}{}
	}
	for _, key := range extraKeys {
		keys[key] = struct{}{}
	}
	for key := range env {
		upper := strings.ToUpper(key)
		for _, suffix := range credentialSuffixes {
			if strings.HasSuffix(upper, suffix) {
				keys[key] = struct{}{}
			}
		}
	}

	seen := map[string]struct{}{}
	var secrets []string
	for key := range keys {
		value, ok := env.Lookup(key)
		if !ok {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		secrets = append(secrets, value)
	}
	// Longest first so a secret containing another is masked whole.
	sort.Slice(secrets, func(i, j int) bool {
		if len(secrets[i]) != len(secrets[j]) {
			return len(secrets[i]) > len(secrets[j])
		}
		return secrets[i] < secrets[j]
	})

	return &Redactor{patterns: defaultPatterns, secrets: secrets}
}

// Redact implements ports.Redactor.
func (r *Redactor) Redact(text string) string {
	if r == nil || text == "" {
		return text
	}
	for _, secret := range r.secrets {
		text = strings.ReplaceAll(text, secret, domain.RedactedValue)
	}
	for _, pattern := range r.patterns {
		text = pattern.re.ReplaceAllString(text, pattern.replacement)
	}
	return text
}

// RedactDetails returns a deep copy of details with every string redacted.
// The result is never nil.
func (r *Redactor) RedactDetails(details map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(details))
	for key, value := range details {
		out[key] = r.redactValue(value)
	}
	return out
}

func (r *Redactor) redactValue(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return r.Redact(v)
	case []string:
		cp := make([]string, len(v))
		for i, s := range v {
			cp[i] = r.Redact(s)
		}
		return cp
	case []interface{}:
		cp := make([]interface{}, len(v))
		for i, item := range v {
			cp[i] = r.redactValue(item)
		}
		return cp
	case map[string]interface{}:
		return r.RedactDetails(v)
	case map[string]string:
		cp := make(map[string]string, len(v))
		for k, s := range v {
			cp[k] = r.Redact(s)
		}
		return cp
	default:
		return v
	}
}

var _ ports.Redactor = (*Redactor)(nil)
