// Package textutils provides merchant text normalization and comparison.
package textutils

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	hashReferencePattern   = regexp.MustCompile(`(?i)#\d+`)
	numberReferencePattern = regexp.MustCompile(`(?i)\bno\.?\s*\d+\b`)
	nonAlnumPattern        = regexp.MustCompile(`[^a-z0-9\s]`)
)

// NormalizeMerchant canonicalizes free merchant or note text: lowercase,
// reference numbers such as "#1234" and "no. 12" removed, punctuation
// stripped and whitespace collapsed. It is pure and idempotent; an empty
// input yields an empty string.
func NormalizeMerchant(raw string) string {
	s := normalizeOnce(raw)
	// Stripping punctuation can expose a new reference ("no-12" becomes
	// "no12"), so repeat until stable. Every later pass only removes bytes.
	for {
		next := normalizeOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func normalizeOnce(s string) string {
	s = collapseSpaces(strings.ToLower(s))
	s = hashReferencePattern.ReplaceAllString(s, "")
	s = numberReferencePattern.ReplaceAllString(s, "")
	s = nonAlnumPattern.ReplaceAllString(s, "")
	return collapseSpaces(s)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ContainsAny reports whether text contains any of the keywords as a substring.
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// DisplayName title-cases a normalized merchant for presentation.
func DisplayName(normalized string) string {
	return cases.Title(language.Und).String(normalized)
}
