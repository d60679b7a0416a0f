// ABOUTME: Full-text query construction for PostgreSQL tsquery search
// ABOUTME: Turns free-form user input into a safe prefix-matching AND query

package postgres

import (
	"strings"
	"unicode"
)

// BuildTSQuery converts a free-form search string into a tsquery
// expression: whitespace-separated tokens, each suffixed with the
// prefix-match marker, joined with AND. Only letters and digits are
// kept from the input, so no character with meaning inside a
// to_tsquery expression survives. Returns "" when no usable token
// remains.
func BuildTSQuery(query string) string {
	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, query)

	var terms []string
	for _, token := range strings.Fields(sanitized) {
		terms = append(terms, token+":*")
	}

	return strings.Join(terms, " & ")
}
