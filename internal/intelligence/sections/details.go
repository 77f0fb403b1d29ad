package sections

import (
	"regexp"
	"strings"

	"github.com/lexatlas/lexatlas/internal/domain/analysis"
	"github.com/lexatlas/lexatlas/internal/intelligence/common"
)

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)effective as of\s+([A-Za-z]+\s+\d{1,2},\s+\d{4})`),
	regexp.MustCompile(`(?i)dated\s+([A-Za-z]+\s+\d{1,2},\s+\d{4})`),
	regexp.MustCompile(`(?i)dated\s+this\s+(\d{1,2}(?:st|nd|rd|th)?\s+day\s+of\s+[A-Za-z]+,\s+\d{4})`),
}

var partiesRe = regexp.MustCompile(`(?i)between\s+([^,]+),\s+an?\s+([^,]+),?(?:\s+organized\s+under\s+the\s+laws\s+of\s+([^,]+))?[^,]*,\s+(?:with\s+)?(?:its\s+)?(?:principal\s+)?(?:place\s+of\s+business\s+at\s+)?([^,]+)`)

var moneyRe = regexp.MustCompile(`\$\s?(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`)

// ExtractContractDetails pulls the effective date, contracting parties,
// and monetary terms out of a contract.  The first matching date pattern
// wins; every dollar amount is reported with its context window.
func ExtractContractDetails(text string) *analysis.ContractDetails {
	details := &analysis.ContractDetails{
		Parties:        []analysis.Party{},
		FinancialTerms: []analysis.MonetaryTerm{},
	}

	for _, re := range datePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			details.EffectiveDate = m[1]
			break
		}
	}

	for _, m := range partiesRe.FindAllStringSubmatch(text, -1) {
		details.Parties = append(details.Parties, analysis.Party{
			Name:         strings.TrimSpace(m[1]),
			Type:         strings.TrimSpace(m[2]),
			Jurisdiction: strings.TrimSpace(m[3]),
			Address:      strings.TrimSpace(m[4]),
		})
	}

	for _, loc := range moneyRe.FindAllStringIndex(text, -1) {
		details.FinancialTerms = append(details.FinancialTerms, analysis.MonetaryTerm{
			Amount:  text[loc[0]:loc[1]],
			Context: common.ContextWindow(text, loc[0], loc[1]),
		})
	}

	return details
}
