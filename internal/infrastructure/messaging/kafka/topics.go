// Package kafka carries the event contracts and the producer/consumer
// used to run document analysis asynchronously.
package kafka

import (
	"encoding/json"
	"time"
)

// Topic names.
const (
	TopicDocumentIngested  = "document.ingested"
	TopicDocumentAnalyze   = "document.analyze"
	TopicAnalysisCompleted = "analysis.completed"
	TopicDeadLetter        = "dead_letter.documents"
)

const schemaVersion = "1.0"

// EventEnvelope standardizes event messages across topics.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// DocumentIngestedPayload announces a newly stored document.
type DocumentIngestedPayload struct {
	DocumentID string    `json:"document_id"`
	Filename   string    `json:"filename"`
	DocType    string    `json:"doc_type"`
	CharCount  int       `json:"char_count"`
	IngestedAt time.Time `json:"ingested_at"`
}

// AnalyzeRequestedPayload asks the worker to run risk analysis for a
// document.
type AnalyzeRequestedPayload struct {
	DocumentID  string    `json:"document_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// AnalysisCompletedPayload reports a finished risk analysis run.
type AnalysisCompletedPayload struct {
	DocumentID  string    `json:"document_id"`
	ReportID    string    `json:"report_id"`
	RiskScore   float64   `json:"risk_score"`
	CompletedAt time.Time `json:"completed_at"`
}

// DeadLetterPayload preserves a message that exhausted its retries.
type DeadLetterPayload struct {
	OriginTopic string          `json:"origin_topic"`
	Reason      string          `json:"reason"`
	Raw         json.RawMessage `json:"raw"`
	FailedAt    time.Time       `json:"failed_at"`
}
