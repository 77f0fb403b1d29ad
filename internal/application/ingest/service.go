// Package ingest stores incoming documents and prepares them for
// analysis and retrieval: raw bytes to object storage, metadata and
// chunks to postgres, embeddings to milvus, text to opensearch, and an
// ingestion event to kafka.
package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexatlas/lexatlas/internal/config"
	"github.com/lexatlas/lexatlas/internal/domain/document"
	"github.com/lexatlas/lexatlas/internal/infrastructure/messaging/kafka"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
	"github.com/lexatlas/lexatlas/internal/infrastructure/search/milvus"
	"github.com/lexatlas/lexatlas/internal/infrastructure/search/opensearch"
	"github.com/lexatlas/lexatlas/internal/intelligence/sections"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

// Embedder turns chunk texts into vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore is the milvus surface the service needs.
type VectorStore interface {
	Insert(ctx context.Context, vectors []milvus.ChunkVector) error
	DeleteByDocument(ctx context.Context, documentID string) error
}

// TextIndex is the opensearch surface the service needs.
type TextIndex interface {
	Index(ctx context.Context, doc opensearch.IndexedDocument) error
	Delete(ctx context.Context, documentID string) error
}

// EventPublisher publishes ingestion events.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

// Input is one document handed over by the boundary loader: extracted
// plain text plus metadata.
type Input struct {
	Filename string
	DocType  string
	Text     string
}

// ListResult is one page of stored documents.
type ListResult struct {
	Documents []*document.Document `json:"documents"`
	Total     int64                `json:"total"`
	Page      int                  `json:"page"`
	PageSize  int                  `json:"page_size"`
}

// Service ingests, serves, and removes documents.
type Service interface {
	Ingest(ctx context.Context, input *Input) (*document.Document, error)
	Get(ctx context.Context, id uuid.UUID) (*document.Document, error)
	List(ctx context.Context, page, pageSize int) (*ListResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type serviceImpl struct {
	docs      document.Repository
	chunks    document.ChunkRepository
	objects   document.ObjectStore
	vectors   VectorStore
	index     TextIndex
	embedder  Embedder
	publisher EventPublisher
	sections  *sections.Extractor
	cfg       config.AnalysisConfig
	metrics   *prometheus.Metrics
	logger    logging.Logger
}

// NewService wires the ingestion pipeline.
func NewService(
	docs document.Repository,
	chunks document.ChunkRepository,
	objects document.ObjectStore,
	vectors VectorStore,
	index TextIndex,
	embedder Embedder,
	publisher EventPublisher,
	cfg config.AnalysisConfig,
	metrics *prometheus.Metrics,
	logger logging.Logger,
) Service {
	return &serviceImpl{
		docs:      docs,
		chunks:    chunks,
		objects:   objects,
		vectors:   vectors,
		index:     index,
		embedder:  embedder,
		publisher: publisher,
		sections:  sections.NewExtractor(),
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *serviceImpl) Ingest(ctx context.Context, input *Input) (*document.Document, error) {
	start := time.Now()

	if strings.TrimSpace(input.Filename) == "" {
		return nil, errors.New(errors.ErrCodeValidation, "filename is required")
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, errors.New(errors.ErrCodeDocumentEmpty, "document text is empty")
	}
	if s.cfg.MaxDocumentBytes > 0 && len(input.Text) > s.cfg.MaxDocumentBytes {
		return nil, errors.Newf(errors.ErrCodeDocumentTooLarge,
			"document is %d bytes, limit is %d", len(input.Text), s.cfg.MaxDocumentBytes)
	}

	docType := input.DocType
	if docType == "" {
		docType = sections.DetermineDocumentType(input.Text)
	}

	doc := &document.Document{
		ID:        uuid.New(),
		Filename:  input.Filename,
		DocType:   document.Type(docType),
		Text:      input.Text,
		CharCount: len(input.Text),
	}

	objectKey := "documents/" + doc.ID.String() + "/" + doc.Filename
	storagePath, err := s.objects.Put(ctx, objectKey,
		strings.NewReader(input.Text), int64(len(input.Text)), "text/plain")
	if err != nil {
		s.countIngest(docType, "error")
		return nil, err
	}
	doc.StoragePath = storagePath

	if err := s.docs.Save(ctx, doc); err != nil {
		s.countIngest(docType, "error")
		return nil, err
	}

	chunks, err := s.storeChunks(ctx, doc)
	if err != nil {
		s.countIngest(docType, "error")
		return nil, err
	}

	// Full-text indexing and event publication are best effort; losing
	// them degrades search and async analysis but the document is stored.
	if err := s.index.Index(ctx, opensearch.IndexedDocument{
		DocumentID: doc.ID.String(),
		Filename:   doc.Filename,
		DocType:    docType,
		Content:    doc.Text,
		Sections:   collectSections(chunks),
		CreatedAt:  doc.CreatedAt,
	}); err != nil {
		s.logger.Warn("failed to index document text",
			logging.String("document_id", doc.ID.String()), logging.Err(err))
	}
	s.publishIngested(ctx, doc)

	s.countIngest(docType, "ok")
	s.metrics.IngestDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("document ingested",
		logging.String("document_id", doc.ID.String()),
		logging.String("filename", doc.Filename),
		logging.String("doc_type", docType),
		logging.Int("chunks", len(chunks)),
	)
	return doc, nil
}

// storeChunks splits the text, persists the chunks, and inserts their
// embeddings.
func (s *serviceImpl) storeChunks(ctx context.Context, doc *document.Document) ([]*document.Chunk, error) {
	parts := splitText(doc.Text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	chunks := make([]*document.Chunk, len(parts))
	contents := make([]string, len(parts))
	for i, part := range parts {
		chunks[i] = &document.Chunk{
			ID:               uuid.New(),
			DocumentID:       doc.ID,
			Seq:              i,
			Content:          part,
			DetectedSections: detectSections(part),
		}
		contents[i] = part
	}

	if err := s.chunks.SaveBatch(ctx, chunks); err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return chunks, nil
	}

	embeddings, err := s.embedder.Embed(ctx, contents)
	if err != nil {
		return nil, err
	}
	vectors := make([]milvus.ChunkVector, len(chunks))
	for i, c := range chunks {
		vectors[i] = milvus.ChunkVector{
			ChunkID:    c.ID.String(),
			DocumentID: doc.ID.String(),
			Seq:        int64(c.Seq),
			Content:    c.Content,
			Sections:   c.DetectedSections,
			Embedding:  embeddings[i],
		}
	}
	if err := s.vectors.Insert(ctx, vectors); err != nil {
		return nil, err
	}
	return chunks, nil
}

func (s *serviceImpl) publishIngested(ctx context.Context, doc *document.Document) {
	now := time.Now().UTC()
	key := doc.ID.String()

	if err := s.publisher.Publish(ctx, kafka.TopicDocumentIngested, key, kafka.DocumentIngestedPayload{
		DocumentID: key,
		Filename:   doc.Filename,
		DocType:    string(doc.DocType),
		CharCount:  doc.CharCount,
		IngestedAt: now,
	}); err != nil {
		s.logger.Warn("failed to publish ingested event",
			logging.String("document_id", key), logging.Err(err))
	}

	if err := s.publisher.Publish(ctx, kafka.TopicDocumentAnalyze, key, kafka.AnalyzeRequestedPayload{
		DocumentID:  key,
		RequestedAt: now,
	}); err != nil {
		s.logger.Warn("failed to publish analyze request",
			logging.String("document_id", key), logging.Err(err))
	}
}

func (s *serviceImpl) Get(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	return s.docs.FindByID(ctx, id)
}

func (s *serviceImpl) List(ctx context.Context, page, pageSize int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	docs, total, err := s.docs.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return &ListResult{Documents: docs, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// Derived stores first; the postgres row is the source of truth and
	// goes last so a partial failure can be retried.
	key := id.String()
	if err := s.vectors.DeleteByDocument(ctx, key); err != nil {
		s.logger.Warn("failed to delete chunk vectors", logging.String("document_id", key), logging.Err(err))
	}
	if err := s.index.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete indexed text", logging.String("document_id", key), logging.Err(err))
	}
	objectKey := "documents/" + key + "/" + doc.Filename
	if err := s.objects.Remove(ctx, objectKey); err != nil {
		s.logger.Warn("failed to remove stored object", logging.String("document_id", key), logging.Err(err))
	}
	if err := s.chunks.DeleteByDocument(ctx, id); err != nil {
		return err
	}
	return s.docs.Delete(ctx, id)
}

func (s *serviceImpl) countIngest(docType, status string) {
	s.metrics.DocumentsIngestedTotal.WithLabelValues(docType, status).Inc()
}

// collectSections flattens the distinct detected section numbers across
// chunks, dropping the unknown marker.
func collectSections(chunks []*document.Chunk) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range chunks {
		for _, sec := range c.DetectedSections {
			if sec == unknownSectionMarker {
				continue
			}
			if _, ok := seen[sec]; ok {
				continue
			}
			seen[sec] = struct{}{}
			out = append(out, sec)
		}
	}
	return out
}
