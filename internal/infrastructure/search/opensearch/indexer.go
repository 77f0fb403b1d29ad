package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

// IndexedDocument is the searchable projection of a stored document.
type IndexedDocument struct {
	DocumentID string    `json:"document_id"`
	Filename   string    `json:"filename"`
	DocType    string    `json:"doc_type"`
	Content    string    `json:"content"`
	Sections   []string  `json:"sections"`
	CreatedAt  time.Time `json:"created_at"`
}

// Indexer manages the document index.
type Indexer struct {
	client *Client
	logger logging.Logger
}

// NewIndexer creates an Indexer over an established client.
func NewIndexer(c *Client, log logging.Logger) *Indexer {
	return &Indexer{client: c, logger: log}
}

// documentIndexMapping defines the document index.  Content uses the
// english analyzer so statutory phrasing stems consistently; sections and
// doc_type stay keyword for exact filtering.
func documentIndexMapping() map[string]interface{} {
	return map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 1,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"document_id": map[string]interface{}{"type": "keyword"},
				"filename":    map[string]interface{}{"type": "keyword"},
				"doc_type":    map[string]interface{}{"type": "keyword"},
				"content": map[string]interface{}{
					"type":     "text",
					"analyzer": "english",
				},
				"sections":   map[string]interface{}{"type": "keyword"},
				"created_at": map[string]interface{}{"type": "date"},
			},
		},
	}
}

// EnsureIndex creates the document index if it does not exist.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	name := i.client.IndexName()

	existsRes, err := opensearchapi.IndicesExistsRequest{Index: []string{name}}.Do(ctx, i.client.os)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSearchFailed, "failed to check document index")
	}
	defer existsRes.Body.Close()
	if existsRes.StatusCode == http.StatusOK {
		return nil
	}

	body, err := json.Marshal(documentIndexMapping())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode index mapping")
	}
	createRes, err := opensearchapi.IndicesCreateRequest{
		Index: name,
		Body:  bytes.NewReader(body),
	}.Do(ctx, i.client.os)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSearchFailed, "failed to create document index")
	}
	defer createRes.Body.Close()
	if createRes.IsError() {
		return errors.New(errors.ErrCodeSearchFailed, "index creation returned "+createRes.Status())
	}

	i.logger.Info("document index created", logging.String("index", name))
	return nil
}

// Index writes one document to the index, replacing any previous version.
func (i *Indexer) Index(ctx context.Context, doc IndexedDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode document")
	}

	res, err := opensearchapi.IndexRequest{
		Index:      i.client.IndexName(),
		DocumentID: doc.DocumentID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, i.client.os)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSearchFailed, "failed to index document")
	}
	defer res.Body.Close()
	if res.IsError() {
		return errors.New(errors.ErrCodeSearchFailed, "indexing returned "+res.Status())
	}

	i.logger.Debug("document indexed",
		logging.String("document_id", doc.DocumentID),
		logging.String("filename", doc.Filename),
	)
	return nil
}

// Delete removes a document from the index.  Missing documents are not an
// error so event replays stay idempotent.
func (i *Indexer) Delete(ctx context.Context, documentID string) error {
	res, err := opensearchapi.DeleteRequest{
		Index:      i.client.IndexName(),
		DocumentID: documentID,
	}.Do(ctx, i.client.os)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSearchFailed, "failed to delete indexed document")
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return errors.New(errors.ErrCodeSearchFailed, "index deletion returned "+res.Status())
	}
	return nil
}
