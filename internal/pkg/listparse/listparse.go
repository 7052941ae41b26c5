// Package listparse turns free-form comma/newline separated text into ordered
// token lists.
package listparse

import "strings"

// SplitOrderedList splits raw on ',' and '\n', trims each token and drops the
// empty ones. Order and duplicates are preserved; deduplication is left to
// the caller.
func SplitOrderedList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.TrimSpace(field)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// ParseOrderedListWith runs normalize over every token of SplitOrderedList.
// normalize returns keep=false to drop a token; the first error aborts the
// whole parse.
func ParseOrderedListWith[T any](raw string, normalize func(token string) (value T, keep bool, err error)) ([]T, error) {
	tokens := SplitOrderedList(raw)
	values := make([]T, 0, len(tokens))
	for _, token := range tokens {
		value, keep, err := normalize(token)
		if err != nil {
			return nil, err
		}
		if !keep {
			continue
		}
		values = append(values, value)
	}
	return values, nil
}
