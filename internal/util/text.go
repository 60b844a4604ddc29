package util

import (
	"strings"
	"unicode/utf8"
)

const ellipsis = "..."

// Truncate cuts s to at most limit runes, appending an ellipsis when it had to
// cut. Never splits a multi-byte character.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	var b strings.Builder
	b.Grow(limit + len(ellipsis))
	n := 0
	for _, r := range s {
		if n == limit {
			break
		}
		b.WriteRune(r)
		n++
	}
	b.WriteString(ellipsis)
	return b.String()
}

// CountWords splits on any unicode whitespace
func CountWords(s string) int {
	return len(strings.Fields(s))
}
