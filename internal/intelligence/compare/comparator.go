// Package compare performs structural comparison of legal documents:
// section-by-section similarity, provision drill-downs with word diffs,
// and whole-document similarity with shared citation analysis.
package compare

import (
	"sort"
	"strings"

	"github.com/lexatlas/lexatlas/internal/domain/analysis"
	"github.com/lexatlas/lexatlas/internal/intelligence/common"
	"github.com/lexatlas/lexatlas/internal/intelligence/sections"
)

// Comparator compares two documents structurally.  It is stateless and
// safe for concurrent use.
type Comparator struct {
	sections *sections.Extractor
}

// NewComparator returns a Comparator using the given section extractor,
// or a default one when nil.
func NewComparator(se *sections.Extractor) *Comparator {
	if se == nil {
		se = sections.NewExtractor()
	}
	return &Comparator{sections: se}
}

// Compare extracts the sections of both documents and scores every
// section present in both.  Section similarity is the sequence ratio as a
// 0-100 percentage; sections from the common catalog additionally get a
// word-level breakdown.  Section lists are sorted so output is stable.
func (c *Comparator) Compare(doc1, doc2 string) *analysis.ComparisonResult {
	sec1 := c.sections.ExtractAll(doc1)
	sec2 := c.sections.ExtractAll(doc2)

	result := &analysis.ComparisonResult{
		CommonSections: []string{},
		UniqueToDoc1:   []string{},
		UniqueToDoc2:   []string{},
		Sections:       map[string]analysis.SectionComparison{},
	}

	for _, name := range sortedSectionNames(sec1, sec2) {
		s1, in1 := sec1[name]
		s2, in2 := sec2[name]
		switch {
		case in1 && in2:
			result.CommonSections = append(result.CommonSections, name)
			result.Sections[name] = analysis.SectionComparison{
				SimilarityPct: common.SequenceRatio(s1, s2) * 100,
				Doc1Length:    len(s1),
				Doc2Length:    len(s2),
			}
		case in1:
			result.UniqueToDoc1 = append(result.UniqueToDoc1, name)
		default:
			result.UniqueToDoc2 = append(result.UniqueToDoc2, name)
		}
	}

	for _, name := range sections.CommonSections {
		sc, ok := result.Sections[name]
		if !ok {
			continue
		}
		sc.Detailed = compareWords(sec1[name], sec2[name])
		result.Sections[name] = sc
	}

	return result
}

// compareWords builds the word-level statistics for a section pair.
func compareWords(s1, s2 string) *analysis.WordStats {
	words1 := strings.Fields(s1)
	words2 := strings.Fields(s2)

	stats := &analysis.WordStats{
		WordCount1:     len(words1),
		WordCount2:     len(words2),
		WordDifference: abs(len(words1) - len(words2)),
		AddedWords:     []string{},
		RemovedWords:   []string{},
		CommonWords:    commonWords(words1, words2),
		SimilarityPct:  common.SequenceRatio(s1, s2) * 100,
	}

	for _, e := range common.Diff(words1, words2) {
		switch e.Op {
		case common.OpDelete:
			stats.RemovedWords = append(stats.RemovedWords, e.Token)
		case common.OpInsert:
			stats.AddedWords = append(stats.AddedWords, e.Token)
		}
	}

	return stats
}

// commonWords returns the sorted intersection of the two word lists.
func commonWords(words1, words2 []string) []string {
	set1 := make(map[string]struct{}, len(words1))
	for _, w := range words1 {
		set1[w] = struct{}{}
	}
	seen := make(map[string]struct{})
	var out []string
	for _, w := range words2 {
		if _, ok := set1[w]; !ok {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func sortedSectionNames(a, b map[string]string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var names []string
	for name := range a {
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for name := range b {
		if _, ok := seen[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
