package citex

import (
	"strings"

	"github.com/lexatlas/lexatlas/internal/domain/citation"
)

// Extractor finds citations in raw document text.  The zero value is not
// usable; construct with NewExtractor.
type Extractor struct {
	catalog map[citation.Category][]pattern
}

// NewExtractor returns an Extractor backed by the built-in pattern catalog.
func NewExtractor() *Extractor {
	return &Extractor{catalog: catalog}
}

// Extract returns the citations found in text, keyed by category.  Every
// category appears in the result, empty when nothing matched.  Within a
// category, matches keep first-occurrence order across the category's
// patterns and duplicates are dropped.
func (e *Extractor) Extract(text string) map[citation.Category][]string {
	out := make(map[citation.Category][]string, len(e.catalog))
	for _, cat := range citation.Categories() {
		matches := []string{}
		seen := make(map[string]struct{})
		for _, p := range e.catalog[cat] {
			for _, m := range renderMatches(p, text) {
				if _, dup := seen[m]; dup {
					continue
				}
				seen[m] = struct{}{}
				matches = append(matches, m)
			}
		}
		out[cat] = matches
	}
	return out
}

// renderMatches flattens regex matches into citation strings.  A pattern
// without capture groups yields its full match text; a pattern with groups
// yields its non-empty group texts joined by a single space.
func renderMatches(p pattern, text string) []string {
	raw := p.re.FindAllStringSubmatch(text, -1)
	if raw == nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, m := range raw {
		if p.groups == 0 {
			out = append(out, m[0])
			continue
		}
		parts := make([]string, 0, p.groups)
		for _, g := range m[1:] {
			if g != "" {
				parts = append(parts, g)
			}
		}
		out = append(out, strings.Join(parts, " "))
	}
	return out
}
