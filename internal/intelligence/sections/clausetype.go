package sections

import (
	"strings"

	"github.com/lexatlas/lexatlas/internal/domain/analysis"
)

const clauseConfidenceWeight = 20

// clauseKinds lists classifiable clause types in tie-break order: when two
// types match the same number of keywords, the earlier one wins.
var clauseKinds = []string{
	"confidentiality", "intellectual_property", "termination",
	"payment", "liability", "governing_law",
}

var clauseKeywords = map[string][]string{
	"confidentiality":       {"confidential", "disclose", "non-disclosure", "proprietary", "secret"},
	"intellectual_property": {"intellectual property", "copyright", "patent", "trademark", "ownership", "license"},
	"termination":           {"terminate", "termination", "cancellation", "expiration", "discontinue"},
	"payment":               {"payment", "fee", "compensation", "invoice", "expense"},
	"liability":             {"liability", "limitation", "indemnification", "indemnify", "warranty"},
	"governing_law":         {"governing law", "jurisdiction", "arbitration", "dispute", "venue"},
}

// IdentifyClauseType classifies a clause by counting keyword hits per
// type.  Confidence is min(100, hits*20); with no hits at all the type is
// "unknown" at zero confidence.
func IdentifyClauseType(text string) analysis.ClauseType {
	lower := strings.ToLower(text)

	best := ""
	bestCount := 0
	for _, kind := range clauseKinds {
		count := 0
		for _, kw := range clauseKeywords[kind] {
			if strings.Contains(lower, kw) {
				count++
			}
		}
		if count > bestCount {
			best = kind
			bestCount = count
		}
	}

	if bestCount == 0 {
		return analysis.ClauseType{Type: "unknown", Confidence: 0}
	}
	confidence := bestCount * clauseConfidenceWeight
	if confidence > 100 {
		confidence = 100
	}
	return analysis.ClauseType{Type: best, Confidence: float64(confidence)}
}
