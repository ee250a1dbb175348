package fuzzy

import (
	"math"

	"github.com/antzucaro/matchr"
)

// Score is a string similarity metric on a 0-100 scale. The
// classifier depends only on this signature so the underlying
// algorithm can be swapped out.
type Score func(needle, haystack string) int

// PartialRatio scores how well needle matches the most similar
// equal-length window of haystack, using Levenshtein distance
// normalized to 0-100. An exact substring scores 100.
func PartialRatio(needle, haystack string) int {
	n := []rune(needle)
	h := []rune(haystack)
	if len(n) > len(h) {
		n, h = h, n
	}
	if len(n) == 0 {
		if len(h) == 0 {
			return 100
		}
		return 0
	}

	best := 0
	for i := 0; i+len(n) <= len(h); i++ {
		window := string(h[i : i+len(n)])
		dist := matchr.Levenshtein(string(n), window)
		score := int(math.Round((1 - float64(dist)/float64(len(n))) * 100))
		if score > best {
			best = score
		}
		if best == 100 {
			break
		}
	}
	return best
}
