package llm

import (
	"strings"
)

// legalSystemPrompt instructs the model to answer from the retrieved text
// with section citations, flagging interpretation and missing information.
const legalSystemPrompt = `You are a legal document analysis assistant. Use the following pieces of legal text to answer the question at the end.

If the answer can be found directly in the text, cite the specific section or article number. If you need to make a legal interpretation, clearly indicate that you are interpreting the text and not quoting it directly.

Remember that legal analysis requires precision and caution. If the text does not contain sufficient information to answer confidently, explain what information is missing. Do not make definitive legal conclusions without adequate support from the document.`

// Passage is one retrieved chunk handed to the prompt.
type Passage struct {
	Content  string
	Sections []string
}

// BuildLegalPrompt assembles the chat messages for a question over the
// retrieved passages.
func BuildLegalPrompt(question string, passages []Passage) []Message {
	var context strings.Builder
	for i, p := range passages {
		if i > 0 {
			context.WriteString("\n\n")
		}
		context.WriteString(p.Content)
	}

	var user strings.Builder
	user.WriteString("Legal Text:\n")
	user.WriteString(context.String())
	user.WriteString("\n\nQuestion: ")
	user.WriteString(question)
	user.WriteString("\n\nAnswer (with citations where applicable):\n")

	return []Message{
		{Role: RoleSystem, Content: legalSystemPrompt},
		{Role: RoleUser, Content: user.String()},
	}
}

// SectionCitations collects the distinct section references of the
// passages in first-seen order.  Chunks whose section detection failed
// carry the marker "unknown" and contribute nothing.
func SectionCitations(passages []Passage) []string {
	seen := make(map[string]struct{})
	var citations []string
	for _, p := range passages {
		if len(p.Sections) == 0 || p.Sections[0] == "unknown" {
			continue
		}
		for _, s := range p.Sections {
			label := "Section " + s
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			citations = append(citations, label)
		}
	}
	return citations
}
