package risk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/internal/domain/analysis"
)

// allProvisions contains every standard provision so tests can isolate the
// scoring math from the missing-provision penalty.
const allProvisions = "termination confidentiality intellectual property " +
	"indemnification governing law dispute resolution force majeure " +
	"assignment notices entire agreement"

func TestAnalyzeCleanTextScoresPenaltyOnly(t *testing.T) {
	a := NewAnalyzer()

	got := a.Analyze("lorem ipsum dolor sit amet")

	// No category hits; all ten provisions absent, so the composite is the
	// capped penalty alone.
	assert.Len(t, got.MissingProvisions, 10)
	assert.InDelta(t, 20.0, got.RiskScore, 1e-9)
	for _, cs := range got.Categories {
		assert.Zero(t, cs.Matches)
		assert.Zero(t, cs.Score)
	}
}

func TestAnalyzeScoreClampedAtSaturation(t *testing.T) {
	a := NewAnalyzer()

	// One red flag per category, none overlapping a standard provision or
	// its synonyms, repeated until every category saturates at 100.  The
	// missing-provision penalty then pushes the raw composite past 100.
	line := "may sole discretion unlimited liability at its convenience forever work for hire. "
	got := a.Analyze(strings.Repeat(line, 12))

	require.Len(t, got.MissingProvisions, 10)
	for cat, cs := range got.Categories {
		assert.GreaterOrEqual(t, cs.Matches, 10, "category %s", cat)
		assert.InDelta(t, 100.0, cs.Score, 1e-9, "category %s", cat)
	}
	assert.InDelta(t, 100.0, got.RiskScore, 1e-9)
}

func TestAnalyzeSingleAmbiguousTerm(t *testing.T) {
	a := NewAnalyzer()

	got := a.Analyze(allProvisions + ". The supplier may deliver.")

	require.Len(t, got.AmbiguousClauses, 1)
	assert.Equal(t, "may", got.AmbiguousClauses[0].Term)
	assert.Contains(t, got.AmbiguousClauses[0].Context, "supplier may deliver")

	cs := got.Categories[analysis.RiskAmbiguity]
	assert.Equal(t, 1, cs.Matches)
	assert.InDelta(t, 10.0, cs.Score, 1e-9)

	assert.Empty(t, got.MissingProvisions)
	assert.InDelta(t, 10.0/6.0, got.RiskScore, 1e-9)
}

func TestAnalyzeRegexPattern(t *testing.T) {
	a := NewAnalyzer()

	got := a.Analyze("The contractor shall indemnify the client against all claims.")

	require.Len(t, got.LiabilityIssues, 1)
	assert.Equal(t, "indemnify the client against all", got.LiabilityIssues[0].Term)

	cs := got.Categories[analysis.RiskLiability]
	assert.Equal(t, 1, cs.Matches)
	assert.InDelta(t, 10.0, cs.Score, 1e-9)
}

func TestAnalyzeKeywordNeedsWordBoundary(t *testing.T) {
	a := NewAnalyzer()

	// "dismayed" must not fire the "may" keyword.
	got := a.Analyze(allProvisions + ". Everyone was dismayed.")

	assert.Empty(t, got.AmbiguousClauses)
	assert.Zero(t, got.RiskScore)
}

func TestAnalyzeCategoryScoreCapped(t *testing.T) {
	a := NewAnalyzer()

	text := strings.Repeat("it may happen. ", 15)
	got := a.Analyze(text)

	cs := got.Categories[analysis.RiskAmbiguity]
	assert.Equal(t, 15, cs.Matches)
	assert.InDelta(t, 100.0, cs.Score, 1e-9)
}

func TestAnalyzeCaseInsensitive(t *testing.T) {
	a := NewAnalyzer()

	got := a.Analyze("Termination MAY occur at its SOLE DISCRETION.")

	require.Len(t, got.AmbiguousClauses, 1)
	assert.Equal(t, "MAY", got.AmbiguousClauses[0].Term)
	require.Len(t, got.OneSidedTerms, 1)
	assert.Equal(t, "SOLE DISCRETION", got.OneSidedTerms[0].Term)
}

func TestFindMissingProvisionsSynonyms(t *testing.T) {
	a := NewAnalyzer()

	missing := a.FindMissingProvisions("The parties agree to arbitration and accept cancellation terms.")

	assert.NotContains(t, missing, "dispute resolution")
	assert.NotContains(t, missing, "termination")
	assert.Contains(t, missing, "force majeure")
	assert.Contains(t, missing, "governing law")
}

func TestFindMissingProvisionsOrder(t *testing.T) {
	a := NewAnalyzer()

	missing := a.FindMissingProvisions("")

	assert.Equal(t, standardProvisions, missing)
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := NewAnalyzer()
	text := allProvisions + ". The vendor may unilaterally terminate immediately for any reason."

	first := a.Analyze(text)
	second := a.Analyze(text)

	assert.Equal(t, first, second)
}
