// Package dedup filters candidate articles against previously published
// newsletter history, by exact URL and by title similarity.
package dedup

import "strings"

// Ratio returns a similarity measure in [0,1] between two strings: the ratio
// of characters in matching runs to the total length of both inputs
// (Ratcliff/Obershelp, the measure behind Python's difflib.SequenceMatcher).
// Symmetric and deterministic.
func Ratio(a, b string) float64 {
	ar := []rune(a)
	br := []rune(b)
	total := len(ar) + len(br)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingRunes(ar, br)) / float64(total)
}

// NormalizeTitle lower-cases and collapses all whitespace runs to single
// spaces so similarity is insensitive to casing and formatting.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// matchingRunes sums the sizes of all matching blocks: the longest common
// run splits both sequences, and the regions to its left and right are
// matched recursively.
func matchingRunes(a, b []rune) int {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(a), 0, len(b)}}
	matched := 0

	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, size := longestMatch(a, s.alo, s.ahi, s.blo, s.bhi, b2j)
		if size == 0 {
			continue
		}
		matched += size
		queue = append(queue,
			span{s.alo, i, s.blo, j},
			span{i + size, s.ahi, j + size, s.bhi})
	}

	return matched
}

// longestMatch finds the longest run a[i:i+k] == b[j:j+k] inside the given
// window, preferring the earliest i and then the earliest j on ties.
func longestMatch(a []rune, alo, ahi, blo, bhi int, b2j map[rune][]int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	j2len := map[int]int{}

	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}

	return besti, bestj, bestsize
}
