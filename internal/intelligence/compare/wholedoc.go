package compare

import (
	"sort"

	"github.com/lexatlas/lexatlas/internal/domain/analysis"
	"github.com/lexatlas/lexatlas/internal/domain/citation"
	"github.com/lexatlas/lexatlas/internal/intelligence/citex"
	"github.com/lexatlas/lexatlas/internal/intelligence/common"
)

// diffCharLimit bounds the text fed to the line diff; diffLineLimit bounds
// the emitted diff length.
const (
	diffCharLimit = 50000
	diffLineLimit = 200
)

// WholeDocComparator compares complete documents rather than individual
// sections: word-set similarity, shared legal references, and a bounded
// line diff.
type WholeDocComparator struct {
	citations *citex.Extractor
}

// NewWholeDocComparator returns a comparator using the given citation
// extractor, or a default one when nil.
func NewWholeDocComparator(ce *citex.Extractor) *WholeDocComparator {
	if ce == nil {
		ce = citex.NewExtractor()
	}
	return &WholeDocComparator{citations: ce}
}

// Compare computes the whole-document comparison.  The similarity score is
// the Jaccard word-set similarity, a 0-1 fraction (section similarities
// elsewhere are 0-100 percentages).  Only the first 50000 characters of
// each document feed the line diff, which emits changed lines with bounded
// context and is capped at 200 entries.
func (c *WholeDocComparator) Compare(text1, text2 string) *analysis.DocumentComparison {
	cit1 := c.citations.Extract(text1)
	cit2 := c.citations.Extract(text2)

	diff := common.DiffLines(truncate(text1, diffCharLimit), truncate(text2, diffCharLimit), diffLineLimit)
	lines := make([]analysis.LineChange, len(diff))
	for i, d := range diff {
		lines[i] = analysis.LineChange{Kind: d.Kind, Line: d.Line}
	}

	return &analysis.DocumentComparison{
		SimilarityScore: common.Jaccard(text1, text2),
		SharedCitations: shared(cit1[citation.CategoryCase], cit2[citation.CategoryCase]),
		SharedStatutes:  shared(cit1[citation.CategoryStatute], cit2[citation.CategoryStatute]),
		Diff:            lines,
	}
}

// shared returns the sorted intersection of two citation lists.
func shared(a, b []string) []string {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	out := []string{}
	for _, s := range b {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
