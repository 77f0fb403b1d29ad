// Package qa answers natural-language questions over the document corpus
// by retrieving the most relevant chunks from the vector store and asking
// the language model to answer from them, with section citations.  It also
// fronts the full-text document search.
package qa

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/lexatlas/lexatlas/internal/config"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/redis"
	"github.com/lexatlas/lexatlas/internal/infrastructure/llm"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
	"github.com/lexatlas/lexatlas/internal/infrastructure/search/milvus"
	"github.com/lexatlas/lexatlas/internal/infrastructure/search/opensearch"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

const (
	cacheName = "qa"

	// sourceExcerptLen bounds the chunk excerpt echoed back with each
	// answer source.
	sourceExcerptLen = 200
)

// Embedder turns the question into a query vector.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever finds the chunks nearest to a query vector.
type Retriever interface {
	Search(ctx context.Context, embedding []float32, topK int, filter string) ([]milvus.ChunkHit, error)
}

// Completer produces the model's answer for a chat exchange.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// KeywordSearcher runs full-text queries over the document index.
type KeywordSearcher interface {
	Search(ctx context.Context, req opensearch.SearchRequest) (*opensearch.SearchResult, error)
}

// AskInput is a question, optionally scoped to one document.  A nil
// DocumentID asks across the whole corpus.
type AskInput struct {
	Question   string    `json:"question"`
	DocumentID uuid.UUID `json:"document_id,omitempty"`
}

// Source is one retrieved passage backing an answer.
type Source struct {
	DocumentID string   `json:"document_id"`
	Seq        int64    `json:"seq"`
	Sections   []string `json:"sections,omitempty"`
	Excerpt    string   `json:"excerpt"`
	Score      float32  `json:"score"`
}

// Answer carries the model's response with its supporting evidence.
type Answer struct {
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Citations  []string  `json:"citations,omitempty"`
	Sources    []Source  `json:"sources"`
	AnsweredAt time.Time `json:"answered_at"`
}

// Service exposes question answering and full-text search.
type Service interface {
	Ask(ctx context.Context, in AskInput) (*Answer, error)
	Search(ctx context.Context, req opensearch.SearchRequest) (*opensearch.SearchResult, error)
}

type serviceImpl struct {
	embedder  Embedder
	retriever Retriever
	completer Completer
	searcher  KeywordSearcher
	cache     redis.Cache
	cfg       config.LLMConfig
	cacheTTL  time.Duration
	metrics   *prometheus.Metrics
	logger    logging.Logger
}

// NewService wires the retrieval-augmented QA pipeline.
func NewService(
	embedder Embedder,
	retriever Retriever,
	completer Completer,
	searcher KeywordSearcher,
	cache redis.Cache,
	cfg config.LLMConfig,
	cacheTTL time.Duration,
	metrics *prometheus.Metrics,
	logger logging.Logger,
) Service {
	return &serviceImpl{
		embedder:  embedder,
		retriever: retriever,
		completer: completer,
		searcher:  searcher,
		cache:     cache,
		cfg:       cfg,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
		logger:    logger,
	}
}

// Ask retrieves the passages nearest to the question, asks the model to
// answer from them, and caches the result so repeated questions over
// unchanged documents skip the model entirely.
func (s *serviceImpl) Ask(ctx context.Context, in AskInput) (*Answer, error) {
	if in.Question == "" {
		return nil, errors.New(errors.ErrCodeValidation, "question is required")
	}

	key := cacheKey(in)
	var answer Answer
	ran := false
	err := s.cache.GetOrSet(ctx, key, &answer, s.cacheTTL, func(ctx context.Context) (interface{}, error) {
		ran = true
		return s.answer(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		if ran {
			s.metrics.CacheMissesTotal.WithLabelValues(cacheName).Inc()
		} else {
			s.metrics.CacheHitsTotal.WithLabelValues(cacheName).Inc()
		}
	}
	return &answer, nil
}

func (s *serviceImpl) answer(ctx context.Context, in AskInput) (*Answer, error) {
	vectors, err := s.embedder.Embed(ctx, []string{in.Question})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, errors.New(errors.ErrCodeEmbeddingFailed, "question embedding missing from response")
	}

	filter := ""
	if in.DocumentID != uuid.Nil {
		filter = milvus.DocumentFilter(in.DocumentID.String())
	}

	hits, err := s.retriever.Search(ctx, vectors[0], s.cfg.RetrievalK, filter)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no relevant passages found for the question")
	}

	passages := make([]llm.Passage, len(hits))
	for i, h := range hits {
		passages[i] = llm.Passage{Content: h.Content, Sections: h.Sections}
	}
	messages := llm.BuildLegalPrompt(in.Question, passages)

	start := time.Now()
	text, err := s.completer.Complete(ctx, messages)
	if s.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.metrics.LLMRequestsTotal.WithLabelValues("qa", status).Inc()
		s.metrics.LLMRequestDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, err
	}

	answer := &Answer{
		Question:   in.Question,
		Answer:     text,
		Citations:  llm.SectionCitations(passages),
		Sources:    sources(hits),
		AnsweredAt: time.Now().UTC(),
	}

	s.logger.Info("question answered",
		logging.String("document_id", scopeLabel(in.DocumentID)),
		logging.Int("passages", len(hits)),
		logging.Int("citations", len(answer.Citations)),
		logging.Duration("llm_took", time.Since(start)),
	)
	return answer, nil
}

// Search runs a full-text query over the indexed documents.
func (s *serviceImpl) Search(ctx context.Context, req opensearch.SearchRequest) (*opensearch.SearchResult, error) {
	return s.searcher.Search(ctx, req)
}

func sources(hits []milvus.ChunkHit) []Source {
	out := make([]Source, len(hits))
	for i, h := range hits {
		excerpt := h.Content
		if len(excerpt) > sourceExcerptLen {
			excerpt = excerpt[:sourceExcerptLen]
		}
		out[i] = Source{
			DocumentID: h.DocumentID,
			Seq:        h.Seq,
			Sections:   h.Sections,
			Excerpt:    excerpt,
			Score:      h.Score,
		}
	}
	return out
}

func cacheKey(in AskInput) string {
	sum := sha256.Sum256([]byte(in.Question))
	return "qa:" + scopeLabel(in.DocumentID) + ":" + hex.EncodeToString(sum[:16])
}

func scopeLabel(documentID uuid.UUID) string {
	if documentID == uuid.Nil {
		return "all"
	}
	return documentID.String()
}
