package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLegalPrompt(t *testing.T) {
	passages := []Passage{
		{Content: "Either party may terminate this Agreement with thirty days written notice.", Sections: []string{"7.1"}},
		{Content: "Notices shall be delivered to the addresses set forth above.", Sections: []string{"12"}},
	}

	messages := BuildLegalPrompt("What is the notice period?", passages)
	require.Len(t, messages, 2)

	assert.Equal(t, RoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "legal document analysis assistant")
	assert.Contains(t, messages[0].Content, "cite the specific section or article number")

	assert.Equal(t, RoleUser, messages[1].Role)
	assert.Contains(t, messages[1].Content, "Legal Text:\n")
	assert.Contains(t, messages[1].Content, "thirty days written notice")
	assert.Contains(t, messages[1].Content, "Question: What is the notice period?")
	assert.Contains(t, messages[1].Content, "Answer (with citations where applicable):")

	// Passages are separated by a blank line.
	assert.Contains(t, messages[1].Content, "notice.\n\nNotices shall")
}

func TestSectionCitations(t *testing.T) {
	passages := []Passage{
		{Content: "a", Sections: []string{"7.1", "7.2"}},
		{Content: "b", Sections: []string{"unknown"}},
		{Content: "c", Sections: []string{"7.1", "12"}},
		{Content: "d"},
	}

	citations := SectionCitations(passages)
	assert.Equal(t, []string{"Section 7.1", "Section 7.2", "Section 12"}, citations)
}

func TestSectionCitationsEmpty(t *testing.T) {
	assert.Empty(t, SectionCitations(nil))
	assert.Empty(t, SectionCitations([]Passage{{Content: "x", Sections: []string{"unknown"}}}))
}
