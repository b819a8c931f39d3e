/*
Package textnorm folds free text into a canonical ASCII-lowercase form so that
keyword matching is insensitive to accents, case and encoding.
*/
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize decomposes the input, drops combining marks and any remaining
// non-ASCII runes, and lower-cases the result. Idempotent; empty in, empty out.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(chain, text)
	if err != nil {
		folded = text
	}

	var sb strings.Builder
	sb.Grow(len(folded))
	for _, r := range folded {
		if r > unicode.MaxASCII {
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}
