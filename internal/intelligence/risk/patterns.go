// Package risk scores contractual risk: it scans contract text for
// category-specific red-flag language, checks for missing standard
// provisions, and turns the findings into a bounded composite score with
// improvement suggestions.
package risk

import (
	"regexp"
	"strings"

	"github.com/lexatlas/lexatlas/internal/domain/analysis"
)

// scoredCategories lists the scanned risk categories in evaluation order.
// Missing provisions are detected separately and feed the composite score
// directly.
var scoredCategories = []analysis.RiskCategory{
	analysis.RiskAmbiguity,
	analysis.RiskOneSidedTerms,
	analysis.RiskLiability,
	analysis.RiskTermination,
	analysis.RiskConfidentiality,
	analysis.RiskIntellectualProperty,
}

// riskPatterns maps each category to its red-flag terms.  An entry
// containing regex metacharacters is compiled as a case-insensitive
// expression; anything else is matched as a whole word.
var riskPatterns = map[analysis.RiskCategory][]string{
	analysis.RiskAmbiguity: {
		"may", "might", "could", "reasonable efforts", "commercially reasonable",
		"best efforts", "good faith", "timely manner", "promptly", "substantial",
		"material", "adequate", "appropriate", "suitable", "satisfactory",
	},
	analysis.RiskOneSidedTerms: {
		"sole discretion", "unilateral", "unilaterally", "at any time",
		"without notice", "without cause", "without liability", "no liability",
		"shall not be liable", "in its discretion", "may determine",
	},
	analysis.RiskLiability: {
		"unlimited liability", "sole risk", "indemnify.*all", "indemnify.*any",
		"defend and hold harmless", "to the fullest extent", "unlimited indemnification",
		"including but not limited to", "for any reason",
	},
	analysis.RiskTermination: {
		"immediate termination", "without notice", "terminate immediately",
		"at its convenience", "without cause", "for any reason", "change of control",
	},
	analysis.RiskConfidentiality: {
		"perpetual confidentiality", "unlimited confidentiality", "forever",
		"no time limit", "without restriction", "sole property",
	},
	analysis.RiskIntellectualProperty: {
		"assign all rights", "assign all intellectual property", "work for hire",
		"exclusively own", "transfer all", "irrevocably assign",
	},
}

// standardProvisions are the clauses most contracts are expected to carry,
// in report order.
var standardProvisions = []string{
	"termination", "confidentiality", "intellectual property",
	"indemnification", "governing law", "dispute resolution",
	"force majeure", "assignment", "notices", "entire agreement",
}

// provisionSynonyms lists accepted alternative phrasings per provision.
var provisionSynonyms = map[string][]string{
	"termination":           {"cancellation", "expiration", "discontinuance"},
	"confidentiality":       {"non-disclosure", "private information", "proprietary information"},
	"intellectual property": {"ip rights", "copyrights", "patents", "trademarks"},
	"indemnification":       {"indemnity", "hold harmless", "defend"},
	"governing law":         {"applicable law", "jurisdiction", "choice of law"},
	"dispute resolution":    {"arbitration", "mediation", "settlement of disputes"},
	"force majeure":         {"act of god", "unforeseen circumstances", "beyond control"},
	"assignment":            {"transfer of rights", "successors", "assigns"},
	"notices":               {"notification", "communication"},
	"entire agreement":      {"complete agreement", "integration", "merger clause"},
}

const regexMeta = `.*+?()[]{}|^$`

// compilePattern turns a catalog entry into a matcher.  Entries carrying
// regex metacharacters compile verbatim; plain phrases are escaped and
// anchored on word boundaries so "may" never fires inside "dismayed".
func compilePattern(term string) *regexp.Regexp {
	if strings.ContainsAny(term, regexMeta) {
		return regexp.MustCompile(`(?i)` + term)
	}
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}

var compiledPatterns = func() map[analysis.RiskCategory][]*regexp.Regexp {
	out := make(map[analysis.RiskCategory][]*regexp.Regexp, len(riskPatterns))
	for cat, terms := range riskPatterns {
		res := make([]*regexp.Regexp, len(terms))
		for i, t := range terms {
			res[i] = compilePattern(t)
		}
		out[cat] = res
	}
	return out
}()

var compiledProvisions = func() map[string][]*regexp.Regexp {
	out := make(map[string][]*regexp.Regexp, len(standardProvisions))
	for _, p := range standardProvisions {
		res := []*regexp.Regexp{regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `\b`)}
		for _, syn := range provisionSynonyms[p] {
			res = append(res, regexp.MustCompile(`\b`+regexp.QuoteMeta(syn)+`\b`))
		}
		out[p] = res
	}
	return out
}()
