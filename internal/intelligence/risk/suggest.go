package risk

import (
	"fmt"

	"github.com/lexatlas/lexatlas/internal/domain/analysis"
)

const (
	lowRiskThreshold      = 30
	moderateRiskThreshold = 60
	specificTermLimit     = 3
)

// Suggest derives improvement advice from a completed risk analysis.
// General advice tracks the score band and the finding groups; specific
// suggestions cover the first three ambiguous terms and every missing
// provision.
func Suggest(a *analysis.RiskAnalysis) *analysis.Suggestions {
	s := &analysis.Suggestions{
		GeneralAdvice:       []string{},
		SpecificSuggestions: []string{},
	}

	switch {
	case a.RiskScore < lowRiskThreshold:
		s.GeneralAdvice = append(s.GeneralAdvice,
			"This contract appears to have a relatively low risk profile, but consider reviewing the specific issues identified.")
	case a.RiskScore < moderateRiskThreshold:
		s.GeneralAdvice = append(s.GeneralAdvice,
			"This contract has a moderate risk profile. Address the identified issues, especially any missing provisions and ambiguous terms.")
	default:
		s.GeneralAdvice = append(s.GeneralAdvice,
			"This contract has a high risk profile. Consider comprehensive revision to address the numerous issues identified.")
	}

	if len(a.AmbiguousClauses) > 0 {
		s.GeneralAdvice = append(s.GeneralAdvice,
			"Replace ambiguous terms with specific, measurable obligations and deadlines.")
		for i, m := range a.AmbiguousClauses {
			if i == specificTermLimit {
				break
			}
			s.SpecificSuggestions = append(s.SpecificSuggestions, fmt.Sprintf(
				"Replace ambiguous term '%s' with more specific language defining exact obligations or timelines.", m.Term))
		}
	}

	if len(a.OneSidedTerms) > 0 {
		s.GeneralAdvice = append(s.GeneralAdvice,
			"Review and negotiate one-sided terms to ensure more balanced risk allocation.")
	}

	if len(a.LiabilityIssues) > 0 {
		s.GeneralAdvice = append(s.GeneralAdvice,
			"Address liability concerns, especially any provisions for unlimited liability or overly broad indemnification.")
	}

	for _, provision := range a.MissingProvisions {
		s.SpecificSuggestions = append(s.SpecificSuggestions, fmt.Sprintf(
			"Add a %s provision to address this important area not currently covered in the contract.", provision))
	}

	return s
}
