// Package common provides the text-similarity primitives shared by the
// analysis engines: word tokenization, Jaccard word-set similarity,
// character-level sequence-ratio similarity, and context-window extraction.
// Everything here is a pure function over its inputs and safe for
// concurrent use.
package common

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

var wordRe = regexp.MustCompile(`\b\w+\b`)

// WordSet returns the set of lower-cased words in text.
func WordSet(text string) map[string]struct{} {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Jaccard computes the Jaccard similarity between the word sets of two
// texts, rounded to four decimal places.  Two empty texts yield 0.
func Jaccard(text1, text2 string) float64 {
	set1 := WordSet(text1)
	set2 := WordSet(text2)

	intersection := 0
	for w := range set1 {
		if _, ok := set2[w]; ok {
			intersection++
		}
	}
	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0
	}
	return math.Round(float64(intersection)/float64(union)*10000) / 10000
}

// SequenceRatio computes a similarity ratio in [0, 1] between two strings,
// defined as 2*M/T where M is the total length of the longest matching
// blocks and T is the combined length.  This is the character-level ratio
// used for section similarity scoring.
func SequenceRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matched := 0
	for _, blk := range MatchingBlocks(ra, rb) {
		matched += blk.Size
	}
	return 2 * float64(matched) / float64(total)
}

// Block describes a maximal run of equal elements: a[A:A+Size] == b[B:B+Size].
type Block struct {
	A, B, Size int
}

// MatchingBlocks returns the non-overlapping matching blocks between a and
// b, ordered by position.  Ties on block length resolve to the earliest
// occurrence in a, then in b, so the result is deterministic.
func MatchingBlocks[T comparable](a, b []T) []Block {
	// Index element -> positions in b for O(1) candidate lookup.
	b2j := make(map[T][]int, len(b))
	for j, el := range b {
		b2j[el] = append(b2j[el], j)
	}

	var blocks []Block
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(a), 0, len(b)}}

	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		besti, bestj, bestsize := longestMatch(a, s.alo, s.ahi, s.blo, s.bhi, b2j)
		if bestsize == 0 {
			continue
		}
		blocks = append(blocks, Block{A: besti, B: bestj, Size: bestsize})
		queue = append(queue,
			span{s.alo, besti, s.blo, bestj},
			span{besti + bestsize, s.ahi, bestj + bestsize, s.bhi},
		)
	}

	sortBlocks(blocks)
	return blocks
}

// longestMatch finds the longest block of equal elements within the given
// window, scanning positions of each a-element in b via the prebuilt index.
func longestMatch[T comparable](a []T, alo, ahi, blo, bhi int, b2j map[T][]int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		newj2len := map[int]int{}
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}

func sortBlocks(blocks []Block) {
	// Insertion sort; block counts are small and mostly ordered already.
	for i := 1; i < len(blocks); i++ {
		for j := i; j > 0 && blocks[j].A < blocks[j-1].A; j-- {
			blocks[j], blocks[j-1] = blocks[j-1], blocks[j]
		}
	}
}

// ContextWindow returns the slice of text spanning 50 bytes before start
// and 50 bytes after end, clamped to the text bounds.  Window edges back
// off to rune boundaries so the result is always valid UTF-8.  Used to
// annotate pattern matches with their surroundings.
func ContextWindow(text string, start, end int) string {
	lo := start - 50
	if lo < 0 {
		lo = 0
	}
	hi := end + 50
	if hi > len(text) {
		hi = len(text)
	}
	for lo < start && !utf8.RuneStart(text[lo]) {
		lo++
	}
	if hi < len(text) {
		for hi > end && !utf8.RuneStart(text[hi]) {
			hi--
		}
	}
	return text[lo:hi]
}
