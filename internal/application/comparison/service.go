// Package comparison compares stored documents section by section, by
// single provision, and as whole texts.
package comparison

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lexatlas/lexatlas/internal/config"
	domainanalysis "github.com/lexatlas/lexatlas/internal/domain/analysis"
	"github.com/lexatlas/lexatlas/internal/domain/document"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/redis"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
	"github.com/lexatlas/lexatlas/internal/intelligence/citex"
	"github.com/lexatlas/lexatlas/internal/intelligence/compare"
	"github.com/lexatlas/lexatlas/internal/intelligence/sections"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

// Service compares two stored documents.
type Service interface {
	CompareSections(ctx context.Context, id1, id2 uuid.UUID) (*domainanalysis.ComparisonResult, error)
	CompareProvision(ctx context.Context, id1, id2 uuid.UUID, provision string) (*domainanalysis.ProvisionComparison, error)
	CompareWhole(ctx context.Context, id1, id2 uuid.UUID) (*domainanalysis.DocumentComparison, error)
}

type serviceImpl struct {
	docs     document.Repository
	cache    redis.Cache
	comp     *compare.Comparator
	whole    *compare.WholeDocComparator
	cfg      config.AnalysisConfig
	metrics  *prometheus.Metrics
	logger   logging.Logger
}

// NewService wires the comparison engines.
func NewService(
	docs document.Repository,
	cache redis.Cache,
	cfg config.AnalysisConfig,
	metrics *prometheus.Metrics,
	logger logging.Logger,
) Service {
	return &serviceImpl{
		docs:    docs,
		cache:   cache,
		comp:    compare.NewComparator(sections.NewExtractor()),
		whole:   compare.NewWholeDocComparator(citex.NewExtractor()),
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *serviceImpl) CompareSections(ctx context.Context, id1, id2 uuid.UUID) (*domainanalysis.ComparisonResult, error) {
	text1, text2, err := s.loadPair(ctx, id1, id2)
	if err != nil {
		return nil, err
	}

	key := "compare:sections:" + pairKey(id1, id2)
	var result domainanalysis.ComparisonResult
	err = s.cache.GetOrSet(ctx, key, &result, s.cfg.CacheTTL, func(context.Context) (interface{}, error) {
		return s.timed("sections", func() interface{} {
			return s.comp.Compare(text1, text2)
		}), nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *serviceImpl) CompareProvision(ctx context.Context, id1, id2 uuid.UUID, provision string) (*domainanalysis.ProvisionComparison, error) {
	if provision == "" {
		return nil, errors.New(errors.ErrCodeValidation, "provision name is required")
	}
	text1, text2, err := s.loadPair(ctx, id1, id2)
	if err != nil {
		return nil, err
	}

	result := s.timed("provision", func() interface{} {
		return s.comp.CompareProvision(text1, text2, provision)
	}).(*domainanalysis.ProvisionComparison)

	if !result.FoundInDoc1 && !result.FoundInDoc2 {
		return nil, errors.Newf(errors.ErrCodeProvisionNotFound,
			"provision %q not found in either document", provision)
	}
	return result, nil
}

func (s *serviceImpl) CompareWhole(ctx context.Context, id1, id2 uuid.UUID) (*domainanalysis.DocumentComparison, error) {
	text1, text2, err := s.loadPair(ctx, id1, id2)
	if err != nil {
		return nil, err
	}

	key := "compare:whole:" + pairKey(id1, id2)
	var result domainanalysis.DocumentComparison
	err = s.cache.GetOrSet(ctx, key, &result, s.cfg.CacheTTL, func(context.Context) (interface{}, error) {
		return s.timed("whole", func() interface{} {
			return s.whole.Compare(text1, text2)
		}), nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *serviceImpl) loadPair(ctx context.Context, id1, id2 uuid.UUID) (string, string, error) {
	if id1 == id2 {
		return "", "", errors.New(errors.ErrCodeInsufficientDocs, "comparison requires two distinct documents")
	}
	doc1, err := s.docs.FindByID(ctx, id1)
	if err != nil {
		return "", "", err
	}
	doc2, err := s.docs.FindByID(ctx, id2)
	if err != nil {
		return "", "", err
	}
	return s.bound(doc1.Text), s.bound(doc2.Text), nil
}

func (s *serviceImpl) bound(text string) string {
	if s.cfg.MaxDocumentBytes > 0 && len(text) > s.cfg.MaxDocumentBytes {
		return text[:s.cfg.MaxDocumentBytes]
	}
	return text
}

func (s *serviceImpl) timed(kind string, fn func() interface{}) interface{} {
	start := time.Now()
	out := fn()
	s.metrics.ComparisonsTotal.WithLabelValues(kind).Inc()
	s.metrics.ComparisonDuration.Observe(time.Since(start).Seconds())
	return out
}

// pairKey keeps argument order: unique-section lists and diff direction
// depend on which document is first.
func pairKey(id1, id2 uuid.UUID) string {
	return id1.String() + ":" + id2.String()
}
