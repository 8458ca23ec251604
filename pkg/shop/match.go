package shop

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// matchCutoff is the minimum similarity ratio for a fuzzy catalog match.
const matchCutoff = 0.6

// similarity returns the SequenceMatcher ratio between two strings,
// compared character by character.
func similarity(a, b string) float64 {
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// closestName finds the candidate most similar to raw. It reports no match
// when nothing clears the cutoff, or when two distinct candidates are equally
// close: an ambiguous spoken name must not silently pick a winner.
func closestName(raw string, candidates []string, cutoff float64) (string, bool) {
	const epsilon = 1e-9

	var (
		best      string
		bestRatio float64
		tied      bool
	)
	for _, name := range candidates {
		ratio := similarity(raw, strings.ToLower(name))
		switch {
		case ratio > bestRatio+epsilon:
			best, bestRatio, tied = name, ratio, false
		case ratio > bestRatio-epsilon && name != best:
			tied = true
		}
	}
	if bestRatio < cutoff || tied {
		return "", false
	}
	return best, true
}
