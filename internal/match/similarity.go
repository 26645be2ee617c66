package match

import (
	"github.com/agnivade/levenshtein"
)

// Similarity returns an edit-distance-based similarity between two strings
// in [0, 1]. Both sides are normalized with NormalizeText first; 1.0 means
// the normalized strings are identical, 0.0 means either side is empty.
// The function is deterministic and symmetric.
func Similarity(a, b string) float64 {
	return normalizedSimilarity(NormalizeText(a), NormalizeText(b))
}

// AddressSimilarity compares two addresses after prefecture stripping.
func AddressSimilarity(a, b string) float64 {
	return normalizedSimilarity(NormalizeAddress(a), NormalizeAddress(b))
}

// normalizedSimilarity compares two already-normalized strings:
// 1 - editDistance/maxLen over runes.
func normalizedSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}

	similarity := 1.0 - float64(distance)/float64(maxLen)
	if similarity < 0 {
		return 0.0
	}
	return similarity
}
