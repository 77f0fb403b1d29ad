package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractContractDetailsEffectiveDate(t *testing.T) {
	got := ExtractContractDetails("This Agreement is effective as of January 15, 2024 by the parties.")

	assert.Equal(t, "January 15, 2024", got.EffectiveDate)
}

func TestExtractContractDetailsDatePatternPrecedence(t *testing.T) {
	// Both patterns match; "effective as of" is tried first.
	got := ExtractContractDetails("dated March 1, 2023 and effective as of April 2, 2023")

	assert.Equal(t, "April 2, 2023", got.EffectiveDate)
}

func TestExtractContractDetailsDatedClause(t *testing.T) {
	got := ExtractContractDetails("This Agreement, dated January 1, 2023, is governed by the laws of Delaware.")

	assert.Equal(t, "January 1, 2023", got.EffectiveDate)
}

func TestExtractContractDetailsParties(t *testing.T) {
	text := "This Agreement is between Acme Corp, a Delaware corporation, with its principal place of business at 100 Main Street, in the State of Delaware."
	got := ExtractContractDetails(text)

	require.NotEmpty(t, got.Parties)
	assert.Equal(t, "Acme Corp", got.Parties[0].Name)
	assert.Equal(t, "Delaware corporation", got.Parties[0].Type)
}

func TestExtractContractDetailsJurisdiction(t *testing.T) {
	text := "entered into between Beta LLC, a limited liability company, organized under the laws of Delaware, at 1 Plaza, New York."
	got := ExtractContractDetails(text)

	require.NotEmpty(t, got.Parties)
	assert.Equal(t, "Beta LLC", got.Parties[0].Name)
	assert.Equal(t, "Delaware", got.Parties[0].Jurisdiction)
}

func TestExtractContractDetailsFinancialTerms(t *testing.T) {
	got := ExtractContractDetails("The fee is $1,500.00 per month plus a deposit of $ 500.")

	require.Len(t, got.FinancialTerms, 2)
	assert.Equal(t, "$1,500.00", got.FinancialTerms[0].Amount)
	assert.Equal(t, "$ 500", got.FinancialTerms[1].Amount)
	assert.Contains(t, got.FinancialTerms[0].Context, "fee is $1,500.00 per month")
}

func TestExtractContractDetailsEmptyText(t *testing.T) {
	got := ExtractContractDetails("")

	assert.Empty(t, got.EffectiveDate)
	assert.Empty(t, got.Parties)
	assert.Empty(t, got.FinancialTerms)
}
