package safety

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds compatibility forms (fullwidth letters, ligatures, circled
// characters) with NFKC, drops invisible format runes such as zero width
// spaces and lowercases. Every stage 1 pattern is written against this form.
func Normalize(text string) string {
	t := transform.Chain(norm.NFKC, runes.Remove(runes.In(unicode.Cf)))
	normalized, _, err := transform.String(t, text)
	if err != nil {
		normalized = norm.NFKC.String(text)
	}
	return strings.ToLower(normalized)
}
