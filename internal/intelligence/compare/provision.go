package compare

import (
	"strings"

	"github.com/lexatlas/lexatlas/internal/domain/analysis"
	"github.com/lexatlas/lexatlas/internal/intelligence/common"
)

// significantRunLength is the minimum run of consecutive additions or
// removals treated as a key difference.
const significantRunLength = 2

// CompareProvision extracts the named provision from both documents and,
// when present in both, compares them word by word.  The Comparison field
// stays nil when either side is missing.
func (c *Comparator) CompareProvision(doc1, doc2, name string) *analysis.ProvisionComparison {
	p1, ok1 := c.sections.Extract(doc1, name)
	p2, ok2 := c.sections.Extract(doc2, name)

	result := &analysis.ProvisionComparison{
		FoundInDoc1: ok1,
		FoundInDoc2: ok2,
	}
	if !ok1 || !ok2 {
		return result
	}

	entries := common.Diff(strings.Fields(p1), strings.Fields(p2))
	diff := make([]string, len(entries))
	for i, e := range entries {
		diff[i] = e.Marker()
	}

	result.Comparison = &analysis.ProvisionComparisonBody{
		SimilarityPct:  common.SequenceRatio(p1, p2) * 100,
		Doc1Length:     len(p1),
		Doc2Length:     len(p2),
		Diff:           diff,
		KeyDifferences: extractKeyDifferences(entries),
	}
	return result
}

// extractKeyDifferences collapses a word diff into the significant runs:
// consecutive additions or removals longer than two tokens, joined back
// into phrases.  A run ends when the opposite op or an unchanged token
// appears.
func extractKeyDifferences(entries []common.DiffEntry) analysis.KeyDifferences {
	kd := analysis.KeyDifferences{Added: []string{}, Removed: []string{}}

	var added, removed []string
	flushAdded := func() {
		if len(added) > significantRunLength {
			kd.Added = append(kd.Added, strings.Join(added, " "))
		}
		added = nil
	}
	flushRemoved := func() {
		if len(removed) > significantRunLength {
			kd.Removed = append(kd.Removed, strings.Join(removed, " "))
		}
		removed = nil
	}

	for _, e := range entries {
		switch e.Op {
		case common.OpInsert:
			added = append(added, e.Token)
			flushRemoved()
		case common.OpDelete:
			removed = append(removed, e.Token)
			flushAdded()
		default:
			flushAdded()
			flushRemoved()
		}
	}
	flushAdded()
	flushRemoved()

	return kd
}
