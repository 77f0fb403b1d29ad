// Package graph rebuilds and queries the citation network spanning the
// stored document collection.  A rebuild loads every document, extracts
// its citations, and replaces the persisted graph wholesale, so the graph
// store never drifts from the document store by more than one rebuild.
package graph

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lexatlas/lexatlas/internal/config"
	"github.com/lexatlas/lexatlas/internal/domain/citation"
	"github.com/lexatlas/lexatlas/internal/domain/document"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
	"github.com/lexatlas/lexatlas/internal/intelligence/citex"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

const (
	// rebuildPageSize bounds how many documents a rebuild loads per
	// repository round trip.
	rebuildPageSize = 100

	// rebuildConcurrency bounds how many document bodies are loaded in
	// parallel within a page.
	rebuildConcurrency = 8

	defaultTopCited = 10
	maxTopCited     = 100
)

// BuildSummary reports the shape of a freshly rebuilt citation graph.
type BuildSummary struct {
	Documents       int       `json:"documents"`
	Citations       int       `json:"citations"`
	CitesEdges      int       `json:"cites_edges"`
	CoCitationEdges int       `json:"co_citation_edges"`
	BuiltAt         time.Time `json:"built_at"`
}

// Service exposes the citation graph operations.
type Service interface {
	// Rebuild reconstructs the citation graph from every stored
	// document and replaces the persisted graph.
	Rebuild(ctx context.Context) (*BuildSummary, error)

	// DocumentCitations returns the citations one document makes.
	DocumentCitations(ctx context.Context, documentName string) ([]citation.Citation, error)

	// CoCited returns documents sharing citations with the given one,
	// with the number of distinct shared citation keys.
	CoCited(ctx context.Context, documentName string) (map[string]int, error)

	// TopCited returns the most-cited authorities across the corpus.
	TopCited(ctx context.Context, n int) ([]citation.RankedCitation, error)

	// Extract returns the raw citations of a single document by
	// category, without touching the graph store.
	Extract(ctx context.Context, documentID uuid.UUID) (map[citation.Category][]string, error)

	// Report summarizes the citations of a single document.
	Report(ctx context.Context, documentID uuid.UUID) (*citation.Report, error)
}

type serviceImpl struct {
	docs      document.Repository
	graph     citation.GraphRepository
	extractor *citex.Extractor
	builder   *citex.GraphBuilder
	cfg       config.AnalysisConfig
	metrics   *prometheus.Metrics
	logger    logging.Logger
}

// NewService wires the citation graph pipeline.
func NewService(
	docs document.Repository,
	graphRepo citation.GraphRepository,
	cfg config.AnalysisConfig,
	metrics *prometheus.Metrics,
	logger logging.Logger,
) Service {
	extractor := citex.NewExtractor()
	return &serviceImpl{
		docs:      docs,
		graph:     graphRepo,
		extractor: extractor,
		builder:   citex.NewGraphBuilder(extractor),
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *serviceImpl) Rebuild(ctx context.Context) (*BuildSummary, error) {
	start := time.Now()

	inputs, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, errors.New(errors.ErrCodeInsufficientDocs, "no documents available to build a citation graph")
	}

	g := s.builder.Build(inputs)

	if err := s.graph.Clear(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGraphStoreFailed, "clearing citation graph")
	}
	if err := s.graph.SaveGraph(ctx, g); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGraphStoreFailed, "saving citation graph")
	}

	coEdges := len(g.CoCitationEdges())
	summary := &BuildSummary{
		Documents:       g.NodeCount(citation.NodeDocument),
		Citations:       g.NodeCount(citation.NodeCitation),
		CitesEdges:      len(g.Edges) - coEdges,
		CoCitationEdges: coEdges,
		BuiltAt:         time.Now().UTC(),
	}

	if s.metrics != nil {
		s.metrics.GraphNodes.WithLabelValues(string(citation.NodeDocument)).Set(float64(summary.Documents))
		s.metrics.GraphNodes.WithLabelValues(string(citation.NodeCitation)).Set(float64(summary.Citations))
		s.metrics.GraphEdges.WithLabelValues("cites").Set(float64(summary.CitesEdges))
		s.metrics.GraphEdges.WithLabelValues("co_cited").Set(float64(summary.CoCitationEdges))
		s.metrics.GraphBuildDuration.Observe(time.Since(start).Seconds())
	}

	s.logger.Info("citation graph rebuilt",
		logging.Int("documents", summary.Documents),
		logging.Int("citations", summary.Citations),
		logging.Int("cites_edges", summary.CitesEdges),
		logging.Int("co_citation_edges", summary.CoCitationEdges),
		logging.Duration("took", time.Since(start)),
	)
	return summary, nil
}

// loadAll pages through the document listing and loads each page's full
// texts concurrently, bounded by rebuildConcurrency and the analysis size
// limit.  Listing order is preserved so co-citation edge direction stays
// stable across rebuilds.
func (s *serviceImpl) loadAll(ctx context.Context) ([]citation.DocumentInput, error) {
	var inputs []citation.DocumentInput
	offset := 0
	for {
		page, total, err := s.docs.List(ctx, rebuildPageSize, offset)
		if err != nil {
			return nil, err
		}

		loaded := make([]citation.DocumentInput, len(page))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(rebuildConcurrency)
		for i, meta := range page {
			i, id := i, meta.ID
			g.Go(func() error {
				doc, err := s.docs.FindByID(gctx, id)
				if err != nil {
					return err
				}
				text := doc.Text
				if s.cfg.MaxDocumentBytes > 0 && len(text) > s.cfg.MaxDocumentBytes {
					text = text[:s.cfg.MaxDocumentBytes]
				}
				loaded[i] = citation.DocumentInput{
					ID:       doc.ID.String(),
					Text:     text,
					Filename: doc.Filename,
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		inputs = append(inputs, loaded...)

		offset += len(page)
		if len(page) == 0 || int64(offset) >= total {
			return inputs, nil
		}
	}
}

func (s *serviceImpl) DocumentCitations(ctx context.Context, documentName string) ([]citation.Citation, error) {
	if documentName == "" {
		return nil, errors.New(errors.ErrCodeValidation, "document name is required")
	}
	return s.graph.DocumentCitations(ctx, documentName)
}

func (s *serviceImpl) CoCited(ctx context.Context, documentName string) (map[string]int, error) {
	if documentName == "" {
		return nil, errors.New(errors.ErrCodeValidation, "document name is required")
	}
	return s.graph.CoCitedDocuments(ctx, documentName)
}

func (s *serviceImpl) TopCited(ctx context.Context, n int) ([]citation.RankedCitation, error) {
	if n <= 0 {
		n = defaultTopCited
	}
	if n > maxTopCited {
		n = maxTopCited
	}
	return s.graph.TopCited(ctx, n)
}

func (s *serviceImpl) Extract(ctx context.Context, documentID uuid.UUID) (map[citation.Category][]string, error) {
	text, err := s.loadText(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return s.extractor.Extract(text), nil
}

func (s *serviceImpl) Report(ctx context.Context, documentID uuid.UUID) (*citation.Report, error) {
	text, err := s.loadText(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return s.extractor.Report(text), nil
}

func (s *serviceImpl) loadText(ctx context.Context, documentID uuid.UUID) (string, error) {
	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		return "", err
	}
	text := doc.Text
	if s.cfg.MaxDocumentBytes > 0 && len(text) > s.cfg.MaxDocumentBytes {
		text = text[:s.cfg.MaxDocumentBytes]
	}
	return text, nil
}
