package risk

import (
	"regexp"
	"strings"

	"github.com/lexatlas/lexatlas/internal/domain/analysis"
	"github.com/lexatlas/lexatlas/internal/intelligence/common"
)

const (
	matchWeight       = 10
	missingWeight     = 5
	missingPenaltyCap = 20
	maxScore          = 100
)

// Analyzer scans contract text against the risk pattern catalog.  It is
// stateless and safe for concurrent use.
type Analyzer struct{}

// NewAnalyzer returns a ready Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze runs the full risk assessment over text.  Each category scores
// min(100, matches*10); the composite is the category mean plus a missing
// provision penalty of min(20, missing*5), clamped to 100.  Analyze is a
// pure single-pass computation and never fails.
func (a *Analyzer) Analyze(text string) *analysis.RiskAnalysis {
	result := &analysis.RiskAnalysis{
		Categories:        make(map[analysis.RiskCategory]analysis.CategoryScore, len(scoredCategories)),
		AmbiguousClauses:  []analysis.PatternMatch{},
		OneSidedTerms:     []analysis.PatternMatch{},
		LiabilityIssues:   []analysis.PatternMatch{},
		MissingProvisions: []string{},
		OtherIssues:       []analysis.PatternMatch{},
	}

	total := 0.0
	for _, cat := range scoredCategories {
		matches := scanCategory(compiledPatterns[cat], text)
		score := float64(min(maxScore, len(matches)*matchWeight))
		total += score
		result.Categories[cat] = analysis.CategoryScore{Score: score, Matches: len(matches)}

		switch cat {
		case analysis.RiskAmbiguity:
			result.AmbiguousClauses = matches
		case analysis.RiskOneSidedTerms:
			result.OneSidedTerms = matches
		case analysis.RiskLiability:
			result.LiabilityIssues = matches
		default:
			result.OtherIssues = append(result.OtherIssues, matches...)
		}
	}

	result.MissingProvisions = a.FindMissingProvisions(text)

	score := total / float64(len(scoredCategories))
	if score > maxScore {
		score = maxScore
	}
	if n := len(result.MissingProvisions); n > 0 {
		penalty := float64(min(missingPenaltyCap, n*missingWeight))
		score += penalty
		if score > maxScore {
			score = maxScore
		}
	}
	result.RiskScore = score

	return result
}

// FindMissingProvisions returns the standard provisions absent from text,
// in catalog order.  A provision counts as present when either its name or
// any of its synonyms appears as a whole word, case-insensitively.
func (a *Analyzer) FindMissingProvisions(text string) []string {
	lower := strings.ToLower(text)
	missing := []string{}
	for _, provision := range standardProvisions {
		found := false
		for _, re := range compiledProvisions[provision] {
			if re.MatchString(lower) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, provision)
		}
	}
	return missing
}

// scanCategory collects every pattern hit with its surrounding context
// window, in pattern order.
func scanCategory(patterns []*regexp.Regexp, text string) []analysis.PatternMatch {
	matches := []analysis.PatternMatch{}
	for _, re := range patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			matches = append(matches, analysis.PatternMatch{
				Term:    text[loc[0]:loc[1]],
				Context: common.ContextWindow(text, loc[0], loc[1]),
			})
		}
	}
	return matches
}
