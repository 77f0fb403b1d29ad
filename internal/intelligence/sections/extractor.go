// Package sections locates and extracts named sections, contract details,
// and structured summaries from legal document text.
package sections

import (
	"fmt"
	"regexp"
	"strings"
)

// CommonSections are the provision names probed by name when a document
// lacks explicit numbered headings.
var CommonSections = []string{
	"confidentiality", "intellectual property", "termination",
	"indemnification", "liability", "payment", "term", "governing law",
	"dispute resolution", "warranties", "force majeure",
}

// headingRe matches "SECTION 3. TITLE" / "ARTICLE 2.1. TITLE" headings with
// an all-caps title.  Matching is case sensitive on purpose: lowercase
// prose mentioning the word "section" is not a heading.
var headingRe = regexp.MustCompile(`(?:SECTION|ARTICLE)\s+(\d+(?:\.\d+)*)\s*\.\s*([A-Z][A-Z\s]+)`)

// nextHeadingRe finds the start of the following section, which bounds the
// current section's content.
var nextHeadingRe = regexp.MustCompile(`(?:SECTION|ARTICLE)\s+\d+(?:\.\d+)*\s*\.`)

// Extractor finds sections in raw text.  It is stateless and safe for
// concurrent use.
type Extractor struct{}

// NewExtractor returns a ready Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// sectionPatterns builds the three probe patterns for a named section, in
// decreasing strictness: a SECTION/ARTICLE heading carrying the name, a
// bare numbered heading carrying the name, and finally the name appearing
// on its own with content running to the next blank line or capitalized
// line.
func sectionPatterns(name string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(name)
	return []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:SECTION|ARTICLE)\s+\d+(?:\.\d+)*\s*\.\s*` + quoted + `\s*\n(.*?)(?:(?:SECTION|ARTICLE)\s+\d+(?:\.\d+)*\s*\.|$)`),
		regexp.MustCompile(`(?is)\d+(?:\.\d+)*\s*\.\s*` + quoted + `\s*\n(.*?)(?:\d+(?:\.\d+)*\s*\.|$)`),
		regexp.MustCompile(`(?is)\b` + quoted + `\b.*?\n(.*?)(?:\n\s*\n|\n\s*[A-Z]|$)`),
	}
}

// Extract returns the body of the named section, trying the probe patterns
// in order.  The second result is false when no pattern matched.
func (e *Extractor) Extract(document, name string) (string, bool) {
	for _, re := range sectionPatterns(name) {
		if m := re.FindStringSubmatch(document); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// ExtractAll returns every detectable section of the document keyed by
// lowercased title.  A heading whose title contains a common section name
// is aliased under that name too, and common sections absent from the
// headings are probed by name as a fallback.
func (e *Extractor) ExtractAll(document string) map[string]string {
	sections := make(map[string]string)

	for _, m := range headingRe.FindAllStringSubmatchIndex(document, -1) {
		title := strings.ToLower(strings.TrimSpace(document[m[4]:m[5]]))
		start := m[1]

		content := document[start:]
		if next := nextHeadingRe.FindStringIndex(content); next != nil {
			content = content[:next[0]]
		}
		content = strings.TrimSpace(content)

		sections[title] = content
		for _, common := range CommonSections {
			if strings.Contains(title, common) {
				sections[common] = content
			}
		}
	}

	for _, name := range CommonSections {
		if _, ok := sections[name]; ok {
			continue
		}
		if content, ok := e.Extract(document, name); ok {
			sections[name] = content
		}
	}

	return sections
}

// Headings returns the numbered headings of the document in order of
// appearance, matching both upper and lower case heading styles.
func (e *Extractor) Headings(document string) []Heading {
	re := regexp.MustCompile(`(?i)(?:SECTION|ARTICLE)\s+(\d+(?:\.\d+)?)\.\s+([^\n]+)`)
	var out []Heading
	for _, m := range re.FindAllStringSubmatch(document, -1) {
		out = append(out, Heading{Number: m[1], Title: strings.TrimSpace(m[2])})
	}
	return out
}

// Heading is a numbered section header.
type Heading struct {
	Number string
	Title  string
}

// String renders the heading the way summaries display it.
func (h Heading) String() string {
	return fmt.Sprintf("%s: %s", h.Number, h.Title)
}
