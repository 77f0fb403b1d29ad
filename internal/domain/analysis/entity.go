// Package analysis defines the result entities produced by the risk,
// section, and comparison engines.  All values are derived, immutable,
// single-pass outputs and serialize to plain JSON for the API and storage
// layers.
package analysis

import (
	"time"

	"github.com/google/uuid"
)

// RiskCategory classifies a contractual risk.
type RiskCategory string

const (
	RiskAmbiguity            RiskCategory = "ambiguity"
	RiskOneSidedTerms        RiskCategory = "one_sided_terms"
	RiskLiability            RiskCategory = "liability_issues"
	RiskTermination          RiskCategory = "termination_risks"
	RiskConfidentiality      RiskCategory = "confidentiality_risks"
	RiskIntellectualProperty RiskCategory = "ip_risks"
)

// PatternMatch records one hit of a risk pattern together with ±50
// characters of surrounding context.
type PatternMatch struct {
	Term    string `json:"term"`
	Context string `json:"context"`
}

// CategoryScore is the per-category outcome: the capped score and the raw
// match count behind it.
type CategoryScore struct {
	Score   float64 `json:"score"`
	Matches int     `json:"matches"`
}

// RiskAnalysis is the complete risk picture for one document.
// RiskScore is bounded to [0, 100]: the mean of the per-category capped
// scores, incremented by min(20, missing*5), clamped at 100.
type RiskAnalysis struct {
	RiskScore         float64                        `json:"risk_score"`
	Categories        map[RiskCategory]CategoryScore `json:"risk_categories"`
	AmbiguousClauses  []PatternMatch                 `json:"ambiguous_clauses"`
	OneSidedTerms     []PatternMatch                 `json:"one_sided_terms"`
	LiabilityIssues   []PatternMatch                 `json:"liability_issues"`
	MissingProvisions []string                       `json:"missing_provisions"`
	OtherIssues       []PatternMatch                 `json:"other_issues"`
}

// Suggestions packages the advisory output derived from a RiskAnalysis.
type Suggestions struct {
	GeneralAdvice       []string `json:"general_advice"`
	SpecificSuggestions []string `json:"specific_suggestions"`
}

// Party is one contracting party extracted from a recital clause.
type Party struct {
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	Address      string `json:"address,omitempty"`
}

// MonetaryTerm is a dollar amount with its surrounding context.
type MonetaryTerm struct {
	Amount  string `json:"amount"`
	Context string `json:"context"`
}

// ContractDetails carries the key facts extracted from a contract.
// EffectiveDate is empty when no date pattern matched.
type ContractDetails struct {
	EffectiveDate  string         `json:"effective_date,omitempty"`
	Parties        []Party        `json:"parties"`
	FinancialTerms []MonetaryTerm `json:"financial_terms"`
}

// SectionHeading is a numbered section header found in a document.
type SectionHeading struct {
	Number string `json:"number"`
	Title  string `json:"title"`
}

// DatedEvent is a typed date extracted from a document.
type DatedEvent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Summary is the structured overview of a legal document.
type Summary struct {
	DocumentType   string           `json:"document_type"`
	KeySections    []SectionHeading `json:"key_sections"`
	Parties        []Party          `json:"parties"`
	Dates          []DatedEvent     `json:"dates"`
	FinancialTerms []MonetaryTerm   `json:"financial_terms"`
	GoverningLaw   string           `json:"governing_law,omitempty"`
}

// ClauseType is the outcome of clause classification; Confidence is in
// [0, 100] and Type is "unknown" when nothing matched.
type ClauseType struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// WordStats is the detailed word-level comparison of one section across
// two documents.
type WordStats struct {
	WordCount1     int      `json:"word_count1"`
	WordCount2     int      `json:"word_count2"`
	WordDifference int      `json:"word_difference"`
	AddedWords     []string `json:"added_words"`
	RemovedWords   []string `json:"removed_words"`
	CommonWords    []string `json:"common_words"`
	SimilarityPct  float64  `json:"similarity_score"`
}

// SectionComparison scores one section common to both documents.
// SimilarityPct is a 0–100 percentage.
type SectionComparison struct {
	SimilarityPct float64    `json:"similarity_score"`
	Doc1Length    int        `json:"doc1_length"`
	Doc2Length    int        `json:"doc2_length"`
	Detailed      *WordStats `json:"detailed,omitempty"`
}

// ComparisonResult is the outcome of comparing two documents section by
// section.
type ComparisonResult struct {
	CommonSections []string                     `json:"common_sections"`
	UniqueToDoc1   []string                     `json:"unique_to_doc1"`
	UniqueToDoc2   []string                     `json:"unique_to_doc2"`
	Sections       map[string]SectionComparison `json:"section_comparisons"`
}

// KeyDifferences collapses a word diff into the significant runs of pure
// additions and removals (runs of more than two tokens).
type KeyDifferences struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// ProvisionComparison is the drill-down comparison of a single named
// provision across two documents.  Comparison is nil unless the provision
// was found in both.
type ProvisionComparison struct {
	FoundInDoc1 bool                      `json:"found_in_doc1"`
	FoundInDoc2 bool                      `json:"found_in_doc2"`
	Comparison  *ProvisionComparisonBody  `json:"comparison,omitempty"`
}

// ProvisionComparisonBody carries the metrics for a provision present in
// both documents.  Diff entries are rendered with conventional "- /+ /  "
// markers.
type ProvisionComparisonBody struct {
	SimilarityPct  float64        `json:"similarity_score"`
	Doc1Length     int            `json:"doc1_length"`
	Doc2Length     int            `json:"doc2_length"`
	Diff           []string       `json:"diff"`
	KeyDifferences KeyDifferences `json:"key_differences"`
}

// DocumentComparison is the whole-document comparison: Jaccard text
// similarity (a 0–1 fraction, unlike the section percentages), shared
// citation sets, and a capped line diff.
type DocumentComparison struct {
	SimilarityScore float64      `json:"similarity_score"`
	SharedCitations []string     `json:"shared_citations"`
	SharedStatutes  []string     `json:"shared_statutes"`
	Diff            []LineChange `json:"diff"`
}

// LineChange mirrors intelligence/common.LineChange for serialization at
// the domain boundary.
type LineChange struct {
	Kind string `json:"kind"`
	Line string `json:"line"`
}

// Report is a persisted risk-analysis run.
type Report struct {
	ID         uuid.UUID     `json:"id"`
	DocumentID uuid.UUID     `json:"document_id"`
	TextHash   string        `json:"text_hash"`
	Analysis   *RiskAnalysis `json:"analysis"`
	CreatedAt  time.Time     `json:"created_at"`
}
