package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/internal/intelligence/common"
)

const terminationDoc1 = "SECTION 1. TERMINATION\neither party may terminate this agreement with thirty days notice.\n"
const terminationDoc2 = "SECTION 1. TERMINATION\neither party may terminate this agreement immediately and without any notice period at all.\n"

func TestCompareProvision(t *testing.T) {
	c := NewComparator(nil)

	got := c.CompareProvision(terminationDoc1, terminationDoc2, "termination")

	assert.True(t, got.FoundInDoc1)
	assert.True(t, got.FoundInDoc2)
	require.NotNil(t, got.Comparison)

	assert.Greater(t, got.Comparison.SimilarityPct, 0.0)
	assert.Less(t, got.Comparison.SimilarityPct, 100.0)
	assert.Contains(t, got.Comparison.Diff, "  either")
	assert.Contains(t, got.Comparison.Diff, "- with")
	assert.Contains(t, got.Comparison.Diff, "+ immediately")
}

func TestCompareProvisionKeyDifferences(t *testing.T) {
	c := NewComparator(nil)

	got := c.CompareProvision(terminationDoc1, terminationDoc2, "termination")

	require.NotNil(t, got.Comparison)
	kd := got.Comparison.KeyDifferences
	assert.Equal(t, []string{"with thirty days notice."}, kd.Removed)
	assert.Equal(t, []string{"immediately and without any notice period at all."}, kd.Added)
}

func TestCompareProvisionMissingSide(t *testing.T) {
	c := NewComparator(nil)

	got := c.CompareProvision(terminationDoc1, "no such provision here", "termination")

	assert.True(t, got.FoundInDoc1)
	assert.False(t, got.FoundInDoc2)
	assert.Nil(t, got.Comparison)
}

func TestExtractKeyDifferencesIgnoresShortRuns(t *testing.T) {
	entries := []common.DiffEntry{
		{Op: common.OpEqual, Token: "the"},
		{Op: common.OpDelete, Token: "old"},
		{Op: common.OpInsert, Token: "new"},
		{Op: common.OpEqual, Token: "clause"},
	}

	kd := extractKeyDifferences(entries)

	assert.Empty(t, kd.Added)
	assert.Empty(t, kd.Removed)
}

func TestExtractKeyDifferencesTrailingRun(t *testing.T) {
	entries := []common.DiffEntry{
		{Op: common.OpEqual, Token: "shall"},
		{Op: common.OpInsert, Token: "survive"},
		{Op: common.OpInsert, Token: "any"},
		{Op: common.OpInsert, Token: "termination"},
	}

	kd := extractKeyDifferences(entries)

	assert.Equal(t, []string{"survive any termination"}, kd.Added)
	assert.Empty(t, kd.Removed)
}
