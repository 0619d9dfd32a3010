package textutils

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Similarity returns the longest-matching-block ratio 2*M/(len(a)+len(b))
// of two strings, compared rune by rune. The result is in [0,1], symmetric,
// and 0 when either side is empty.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	ra, rb := splitRunes(a), splitRunes(b)
	// The matcher's block search is not order-independent on ties.
	forward := difflib.NewMatcher(ra, rb).Ratio()
	backward := difflib.NewMatcher(rb, ra).Ratio()
	if backward > forward {
		return backward
	}
	return forward
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
