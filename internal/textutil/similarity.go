package textutil

import "strings"

// Scorer computes a similarity score in [0, 1] between two normalized
// strings. The aligner accepts any Scorer so the matching heuristic can be
// swapped without touching threshold logic.
type Scorer func(a, b string) float64

// PrefixSimilarity is the default Scorer: 1.0 for equal strings, 0 when
// either is empty, 0.9 when one contains the other, otherwise the fraction
// of matching leading runes over the longer length.
//
// This is a deliberately cheap, order-sensitive heuristic rather than edit
// distance. Panel fragments are short and usually quote the narration from
// its first character, so leading-rune agreement separates matches from
// non-matches well enough, and the score stays explainable.
func PrefixSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.9
	}
	ra := []rune(a)
	rb := []rune(b)
	limit := min(len(ra), len(rb))
	matched := 0
	for matched < limit && ra[matched] == rb[matched] {
		matched++
	}
	return float64(matched) / float64(max(len(ra), len(rb)))
}
