package sections

import (
	"regexp"
	"strings"

	"github.com/lexatlas/lexatlas/internal/domain/analysis"
)

var governingLawRe = regexp.MustCompile(`(?i)(?:governed by|governing law|subject to).{1,50}(?:laws of|law of)\s+([A-Za-z ]+)`)

// docTypeRule maps a document type label to the lowercase phrases that
// identify it.  Rules are checked in order; the first hit wins.
type docTypeRule struct {
	label   string
	any     []string
	require string
}

var docTypeRules = []docTypeRule{
	{label: "consulting_agreement", any: []string{"consulting agreement", "consulting services"}},
	{label: "employment_agreement", any: []string{"employment agreement"}},
	{label: "license_agreement", any: []string{"software license"}},
	{label: "nda", any: []string{"non-disclosure", "confidentiality agreement"}},
	{label: "purchase_agreement", any: []string{"purchase agreement", "asset purchase"}},
	{label: "lease_agreement", any: []string{"property", "premises"}, require: "lease"},
}

// DetermineDocumentType classifies a document by keyword heuristics,
// defaulting to "contract".
func DetermineDocumentType(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range docTypeRules {
		if rule.require != "" && !strings.Contains(lower, rule.require) {
			continue
		}
		for _, phrase := range rule.any {
			if strings.Contains(lower, phrase) {
				return rule.label
			}
		}
	}
	return "contract"
}

// Summarize builds the structured overview of a legal document: its type,
// numbered headings, parties, dates, financial terms, and governing law.
func (e *Extractor) Summarize(text string) *analysis.Summary {
	s := &analysis.Summary{
		DocumentType:   DetermineDocumentType(text),
		KeySections:    []analysis.SectionHeading{},
		Parties:        []analysis.Party{},
		Dates:          []analysis.DatedEvent{},
		FinancialTerms: []analysis.MonetaryTerm{},
	}

	details := ExtractContractDetails(text)
	s.Parties = details.Parties
	s.FinancialTerms = details.FinancialTerms
	if details.EffectiveDate != "" {
		s.Dates = append(s.Dates, analysis.DatedEvent{Type: "effective_date", Value: details.EffectiveDate})
	}

	for _, h := range e.Headings(text) {
		s.KeySections = append(s.KeySections, analysis.SectionHeading{Number: h.Number, Title: h.Title})
	}

	if m := governingLawRe.FindStringSubmatch(text); m != nil {
		s.GoverningLaw = strings.TrimSpace(m[1])
	}

	return s
}
