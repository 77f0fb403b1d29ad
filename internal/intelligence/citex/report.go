package citex

import (
	"sort"

	"github.com/lexatlas/lexatlas/internal/domain/citation"
)

const topCitationLimit = 5

// Report extracts citations from text and summarizes them: per-category
// counts, grand total, and the most frequent citations.  Ties in the top
// list keep extraction order.
func (e *Extractor) Report(text string) *citation.Report {
	extracted := e.Extract(text)

	counts := make(map[citation.Category]int, len(extracted))
	total := 0
	var all []citation.Citation
	for _, cat := range citation.Categories() {
		matches := extracted[cat]
		counts[cat] = len(matches)
		total += len(matches)
		for _, m := range matches {
			all = append(all, citation.Citation{Category: cat, Text: m})
		}
	}

	freq := make(map[citation.Citation]int, len(all))
	var order []citation.Citation
	for _, c := range all {
		if _, ok := freq[c]; !ok {
			order = append(order, c)
		}
		freq[c]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})

	top := make([]citation.RankedCitation, 0, topCitationLimit)
	for _, c := range order {
		if len(top) == topCitationLimit {
			break
		}
		top = append(top, citation.RankedCitation{Citation: c, Count: freq[c]})
	}

	return &citation.Report{
		Counts:       counts,
		Total:        total,
		TopCitations: top,
		All:          extracted,
	}
}
