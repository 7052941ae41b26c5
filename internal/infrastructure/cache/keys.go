package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

// Slug lowercases s and keeps ASCII letters and digits; every other run of
// characters collapses into a single "-". Inputs with no ASCII alphanumerics
// hash to "q" plus 16 hex digits so distinct non-Latin queries get distinct keys.
func Slug(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingDash := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			c += 'a' - 'A'
			fallthrough
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteByte(c)
		default:
			pendingDash = true
		}
	}
	if b.Len() == 0 {
		return hashSlug(s)
	}
	return b.String()
}

func hashSlug(s string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(s)))
	return "q" + hex.EncodeToString(sum[:8])
}

// Key joins the slugs of kind and ids with "-".
func Key(kind string, ids ...string) string {
	parts := make([]string, 0, len(ids)+1)
	parts = append(parts, Slug(kind))
	for _, id := range ids {
		parts = append(parts, Slug(id))
	}
	return strings.Join(parts, "-")
}

// CoordKey keys a coordinate lookup; lat/lon are rounded to 4 decimals and
// kept verbatim so the sign and decimal point survive.
func CoordKey(kind, label string, lat, lon float64) string {
	return fmt.Sprintf("%s-%.4f-%.4f", Key(kind, label), lat, lon)
}

// Path places key under root/tool.
func Path(root, tool, key string) string {
	return filepath.Join(root, tool, key+".json")
}
