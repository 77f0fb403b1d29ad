package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortInput(t *testing.T) {
	assert.Equal(t, []string{"a short document"}, splitText("a short document", 1000, 200))
	assert.Nil(t, splitText("", 1000, 200))
	assert.Nil(t, splitText("   \n  ", 1000, 200))
}

func TestSplitTextPrefersParagraphBoundary(t *testing.T) {
	para1 := strings.Repeat("a", 600)
	para2 := strings.Repeat("b", 600)
	text := para1 + "\n\n" + para2

	chunks := splitText(text, 1000, 200)
	require.Len(t, chunks, 2)

	assert.True(t, strings.HasSuffix(chunks[0], "\n\n"))
	assert.True(t, strings.HasSuffix(chunks[1], para2))

	// Consecutive chunks share the overlap window.
	overlap := chunks[0][len(chunks[0])-200:]
	assert.True(t, strings.HasPrefix(chunks[1], overlap))
}

func TestSplitTextSentenceBoundary(t *testing.T) {
	text := strings.Repeat("x", 80) + ". " + strings.Repeat("y", 68)
	chunks := splitText(text, 100, 20)
	require.Len(t, chunks, 2)
	assert.True(t, strings.HasSuffix(chunks[0], ". "))
}

func TestSplitTextHardCutWithoutSeparators(t *testing.T) {
	text := strings.Repeat("z", 150)
	chunks := splitText(text, 100, 20)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 100)
	assert.Equal(t, text[80:], chunks[1])
}

func TestSplitTextAlwaysProgresses(t *testing.T) {
	// Overlap equal to size would stall; the splitter falls back to a
	// sane overlap and still terminates.
	text := strings.Repeat("q", 500)
	chunks := splitText(text, 100, 100)
	assert.NotEmpty(t, chunks)
	assert.Less(t, len(chunks), 50)
}

func TestDetectSections(t *testing.T) {
	got := detectSections("as set forth in Section 7.1 and subject to Clause 3, and ARTICLE 12")
	assert.Equal(t, []string{"7.1", "3", "12"}, got)
}

func TestDetectSectionsUnknown(t *testing.T) {
	assert.Equal(t, []string{"unknown"}, detectSections("no references here"))
}
