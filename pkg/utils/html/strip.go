// ABOUTME: HTML utilities for stripping tags and decoding entities
// ABOUTME: Provides the normalization pipeline applied to feed titles and summaries

package html

import (
	stdhtml "html"
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize cleans a feed-supplied string for storage: entities are
// decoded, tags stripped, entities decoded again (feeds frequently
// double-encode markup inside CDATA), whitespace collapsed, and the
// result trimmed.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	text := stdhtml.UnescapeString(s)
	text = tagPattern.ReplaceAllString(text, " ")
	text = stdhtml.UnescapeString(text)
	text = whitespacePattern.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
