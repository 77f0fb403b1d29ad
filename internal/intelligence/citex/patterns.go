// Package citex extracts legal citations from document text and builds
// citation networks over document collections.
package citex

import (
	"regexp"

	"github.com/lexatlas/lexatlas/internal/domain/citation"
)

// pattern pairs a compiled expression with the number of capture groups it
// declares.  Group count decides how a match is rendered: zero groups keep
// the full match text, one or more groups join the non-empty group texts
// with a single space.
type pattern struct {
	re     *regexp.Regexp
	groups int
}

func mustPattern(expr string) pattern {
	re := regexp.MustCompile(expr)
	return pattern{re: re, groups: re.NumSubexp()}
}

// catalog holds the recognized citation formats per category.  Order
// matters: extraction walks patterns in declaration order and matches are
// deduplicated first-wins.
var catalog = map[citation.Category][]pattern{
	citation.CategoryCase: {
		mustPattern(`\(\d{4}\)\s+\d+\s+SCC\s+\d+`),
		mustPattern(`\d{4}\s+\(\d+\)\s+SCC\s+\d+`),
		mustPattern(`AIR\s+\d{4}\s+SC\s+\d+`),
		mustPattern(`\(\d{4}\)\s+\d+\s+SCR\s+\d+`),
	},
	citation.CategoryStatute: {
		mustPattern(`(?:The\s+)?([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+Act,?\s+(?:of\s+)?\d{4})`),
		mustPattern(`(?:The\s+)?([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+Rules,?\s+(?:of\s+)?\d{4})`),
		mustPattern(`(?:The\s+)?([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+Regulation,?\s+(?:of\s+)?\d{4})`),
	},
	citation.CategoryConstitutional: {
		mustPattern(`[Aa]rticle\s+(\d+(?:\(\d+\))?(?:\([a-z]\))?)`),
		mustPattern(`[Aa]rticle\s+(\d+)(?:\((\d+)(?:\(([a-z])\))?)?\)`),
		mustPattern(`[Aa]rticle\s+(\d+(?:\(\d+\))?(?:\([a-z]\))?)\s+of\s+the\s+Constitution`),
	},
	citation.CategorySection: {
		mustPattern(`Section\s+(\d+(?:\([a-z]\))?)\s+of\s+the\s+([A-Za-z\s]+)`),
		mustPattern(`under\s+[Ss]ection\s+(\d+(?:\([a-z]\))?)`),
	},
}
