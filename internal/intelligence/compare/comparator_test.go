package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const comparableDoc1 = `SECTION 1. CONFIDENTIALITY
each party shall keep secrets safe.

SECTION 2. PAYMENT
fees are due monthly.
`

const comparableDoc2 = `SECTION 1. CONFIDENTIALITY
each party shall keep secrets safe.
`

func TestCompareCommonAndUniqueSections(t *testing.T) {
	c := NewComparator(nil)

	got := c.Compare(comparableDoc1, comparableDoc2)

	assert.Equal(t, []string{"confidentiality"}, got.CommonSections)
	assert.Equal(t, []string{"payment"}, got.UniqueToDoc1)
	assert.Empty(t, got.UniqueToDoc2)
}

func TestCompareIdenticalSectionScoresFull(t *testing.T) {
	c := NewComparator(nil)

	got := c.Compare(comparableDoc1, comparableDoc2)

	sc, ok := got.Sections["confidentiality"]
	require.True(t, ok)
	assert.InDelta(t, 100.0, sc.SimilarityPct, 1e-9)
	assert.Equal(t, sc.Doc1Length, sc.Doc2Length)
}

func TestCompareAddsWordBreakdownForCommonCatalogSections(t *testing.T) {
	c := NewComparator(nil)

	got := c.Compare(comparableDoc1, comparableDoc2)

	sc := got.Sections["confidentiality"]
	require.NotNil(t, sc.Detailed)
	assert.Equal(t, 6, sc.Detailed.WordCount1)
	assert.Zero(t, sc.Detailed.WordDifference)
	assert.Empty(t, sc.Detailed.AddedWords)
	assert.Empty(t, sc.Detailed.RemovedWords)
	assert.Contains(t, sc.Detailed.CommonWords, "secrets")
}

func TestCompareSymmetricSectionScores(t *testing.T) {
	c := NewComparator(nil)

	ab := c.Compare(comparableDoc1, comparableDoc2)
	ba := c.Compare(comparableDoc2, comparableDoc1)

	assert.Equal(t, ab.Sections["confidentiality"].SimilarityPct, ba.Sections["confidentiality"].SimilarityPct)
	assert.Equal(t, ab.UniqueToDoc1, ba.UniqueToDoc2)
}

func TestCompareEmptyDocuments(t *testing.T) {
	c := NewComparator(nil)

	got := c.Compare("", "")

	assert.Empty(t, got.CommonSections)
	assert.Empty(t, got.UniqueToDoc1)
	assert.Empty(t, got.UniqueToDoc2)
	assert.Empty(t, got.Sections)
}
