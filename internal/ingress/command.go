package ingress

import (
	"strings"

	"github.com/agext/levenshtein"
)

// startMatchThreshold is the Levenshtein similarity ratio spec.md §4.4
// requires for fuzzy "start" detection.
const startMatchThreshold = 0.7

var levenshteinParams = levenshtein.NewParams()

// fuzzyMatchesStart reports whether text fuzzy-matches "start" within
// Levenshtein ratio >= 0.7, catching typos like "strt" or "sart".
func fuzzyMatchesStart(text string) bool {
	candidate := strings.ToLower(strings.TrimSpace(text))
	if candidate == "" {
		return false
	}

	distance := levenshtein.Distance(candidate, "start", levenshteinParams)
	maxLen := len(candidate)
	if len(candidate) < len("start") {
		maxLen = len("start")
	}
	if maxLen == 0 {
		return false
	}

	ratio := 1.0 - float64(distance)/float64(maxLen)
	return ratio >= startMatchThreshold
}
