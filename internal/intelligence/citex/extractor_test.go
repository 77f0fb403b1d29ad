package citex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/internal/domain/citation"
)

func TestExtractCaseCitations(t *testing.T) {
	e := NewExtractor()

	text := "The court relied on (2017) 10 SCC 1 and on AIR 1973 SC 1461 in reaching its conclusion."
	got := e.Extract(text)

	assert.Equal(t, []string{"(2017) 10 SCC 1", "AIR 1973 SC 1461"}, got[citation.CategoryCase])
	assert.Empty(t, got[citation.CategoryStatute])
}

func TestExtractStatuteCitations(t *testing.T) {
	e := NewExtractor()

	text := "Pursuant to The Companies Act, 2013 and the Arbitration Rules, 1996."
	got := e.Extract(text)

	assert.Equal(t, []string{"Companies Act, 2013"}, got[citation.CategoryStatute][:1])
	assert.Contains(t, got[citation.CategoryStatute], "Arbitration Rules, 1996")
}

func TestExtractConstitutionalDeduplicates(t *testing.T) {
	e := NewExtractor()

	// Two patterns match the same reference; the result carries it once.
	text := "Violation of Article 21 of the Constitution was alleged."
	got := e.Extract(text)

	assert.Equal(t, []string{"21"}, got[citation.CategoryConstitutional])
}

func TestExtractSectionCitations(t *testing.T) {
	e := NewExtractor()

	text := "Damages arise per Section 73 of the Contract Act. Relief was sought under Section 5."
	got := e.Extract(text)

	require.Len(t, got[citation.CategorySection], 2)
	assert.Equal(t, "73 Contract Act", got[citation.CategorySection][0])
	assert.Equal(t, "5", got[citation.CategorySection][1])
}

func TestExtractAllCategoriesPresent(t *testing.T) {
	e := NewExtractor()

	got := e.Extract("no citations here")

	require.Len(t, got, len(citation.Categories()))
	for _, cat := range citation.Categories() {
		matches, ok := got[cat]
		assert.True(t, ok, "category %s missing", cat)
		assert.Empty(t, matches)
	}
}

func TestExtractPreservesFirstOccurrenceOrder(t *testing.T) {
	e := NewExtractor()

	text := "See AIR 1990 SC 100. Also (2001) 2 SCC 50. And again AIR 1990 SC 100."
	got := e.Extract(text)

	// Patterns run in declaration order, so the SCC hit precedes the AIR
	// hit even though AIR appears first in the text.
	assert.Equal(t, []string{"(2001) 2 SCC 50", "AIR 1990 SC 100"}, got[citation.CategoryCase])
}

func TestReport(t *testing.T) {
	e := NewExtractor()

	text := "Under Article 14 of the Constitution and AIR 1973 SC 1461, read with The Companies Act, 2013."
	rep := e.Report(text)

	assert.Equal(t, 1, rep.Counts[citation.CategoryCase])
	assert.Equal(t, 1, rep.Counts[citation.CategoryStatute])
	assert.Equal(t, 1, rep.Counts[citation.CategoryConstitutional])
	assert.Equal(t, 0, rep.Counts[citation.CategorySection])
	assert.Equal(t, 3, rep.Total)
	require.Len(t, rep.TopCitations, 3)
	for _, rc := range rep.TopCitations {
		assert.Equal(t, 1, rc.Count)
	}
}

func TestReportTopCitationsCapped(t *testing.T) {
	e := NewExtractor()

	text := "AIR 1990 SC 1, AIR 1991 SC 2, AIR 1992 SC 3, AIR 1993 SC 4, " +
		"AIR 1994 SC 5, AIR 1995 SC 6, AIR 1996 SC 7"
	rep := e.Report(text)

	assert.Equal(t, 7, rep.Total)
	assert.Len(t, rep.TopCitations, 5)
}
