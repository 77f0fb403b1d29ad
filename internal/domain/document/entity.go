// Package document defines the stored-document entities and the
// repository contracts for persisting them.  Text extraction from PDF or
// other formats happens outside the platform boundary; a Document always
// carries extracted plain text.
package document

import (
	"time"

	"github.com/google/uuid"
)

// Type is a coarse document classification supplied at ingestion.
type Type string

const (
	TypeContract Type = "contract"
	TypeStatute  Type = "statute"
	TypeCase     Type = "case"
	TypeLease    Type = "lease"
	TypeOther    Type = "other"
)

// Document is a stored legal document.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	DocType     Type      `json:"doc_type"`
	Text        string    `json:"text,omitempty"`
	CharCount   int       `json:"char_count"`
	StoragePath string    `json:"storage_path,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Chunk is a retrieval unit produced by splitting a document's text.  The
// DetectedSections metadata lets the QA layer cite section numbers for the
// passages it retrieves.
type Chunk struct {
	ID               uuid.UUID `json:"id"`
	DocumentID       uuid.UUID `json:"document_id"`
	Seq              int       `json:"seq"`
	Content          string    `json:"content"`
	DetectedSections []string  `json:"detected_sections"`
}
