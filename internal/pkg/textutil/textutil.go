// Package textutil normalizes strings shown in Alfred result rows.
package textutil

import (
	"strings"
	"unicode/utf8"
)

const ellipsis = "..."

// CollapseWhitespace replaces every run of ASCII whitespace with a single
// space and trims both ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.FieldsFunc(s, isASCIISpace), " ")
}

// Truncate cuts s to max code points. When it cuts, the last three code points
// of the budget become "..."; a budget of three or less yields only dots.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= len(ellipsis) {
		return strings.Repeat(".", max)
	}
	runes := []rune(s)
	return string(runes[:max-len(ellipsis)]) + ellipsis
}

// NormalizeSubtitle collapses whitespace and truncates to max code points.
// It is idempotent.
func NormalizeSubtitle(s string, max int) string {
	return Truncate(CollapseWhitespace(s), max)
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
