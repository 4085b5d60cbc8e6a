package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes text and removes combining marks so that
// "Física" and "fisica" compare equal after folding.
var stripAccents = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeToken canonicalizes a category name into its join token:
// diacritic-stripped, lower-cased, trimmed. Two category strings refer to the
// same category iff their tokens are equal. Returns "" for unusable input.
func NormalizeToken(value string) string {
	cleaned, _, err := transform.String(stripAccents, value)
	if err != nil {
		cleaned = value
	}
	return strings.ToLower(strings.TrimSpace(cleaned))
}

// NormalizeText applies the same diacritic stripping and case folding to
// free-form text. Used by the lexical mobility classifier.
func NormalizeText(value string) string {
	return NormalizeToken(value)
}
