// Package analysis runs the contract risk engines over stored documents,
// persists the reports, and caches results by text hash so re-analysis of
// an unchanged document is free.
package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/lexatlas/lexatlas/internal/config"
	domainanalysis "github.com/lexatlas/lexatlas/internal/domain/analysis"
	"github.com/lexatlas/lexatlas/internal/domain/document"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/redis"
	"github.com/lexatlas/lexatlas/internal/infrastructure/messaging/kafka"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
	"github.com/lexatlas/lexatlas/internal/intelligence/risk"
	"github.com/lexatlas/lexatlas/internal/intelligence/sections"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

const cacheName = "analysis"

// EventPublisher publishes analysis lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

// Service exposes the risk and document-insight operations.
type Service interface {
	Analyze(ctx context.Context, documentID uuid.UUID) (*domainanalysis.Report, error)
	Suggestions(ctx context.Context, documentID uuid.UUID) (*domainanalysis.Suggestions, error)
	ContractDetails(ctx context.Context, documentID uuid.UUID) (*domainanalysis.ContractDetails, error)
	Summarize(ctx context.Context, documentID uuid.UUID) (*domainanalysis.Summary, error)
	ExtractSection(ctx context.Context, documentID uuid.UUID, name string) (string, error)
	ClassifyClause(text string) domainanalysis.ClauseType
	History(ctx context.Context, documentID uuid.UUID) ([]*domainanalysis.Report, error)
}

type serviceImpl struct {
	docs      document.Repository
	reports   domainanalysis.ReportRepository
	cache     redis.Cache
	publisher EventPublisher
	analyzer  *risk.Analyzer
	sections  *sections.Extractor
	cfg       config.AnalysisConfig
	metrics   *prometheus.Metrics
	logger    logging.Logger
}

// NewService wires the analysis pipeline.
func NewService(
	docs document.Repository,
	reports domainanalysis.ReportRepository,
	cache redis.Cache,
	publisher EventPublisher,
	cfg config.AnalysisConfig,
	metrics *prometheus.Metrics,
	logger logging.Logger,
) Service {
	return &serviceImpl{
		docs:      docs,
		reports:   reports,
		cache:     cache,
		publisher: publisher,
		analyzer:  risk.NewAnalyzer(),
		sections:  sections.NewExtractor(),
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
	}
}

// Analyze runs the risk engines over the document, serving a cached report
// when the text has not changed since the last run.
func (s *serviceImpl) Analyze(ctx context.Context, documentID uuid.UUID) (*domainanalysis.Report, error) {
	text, err := s.loadText(ctx, documentID)
	if err != nil {
		return nil, err
	}

	hash := textHash(text)
	key := "analysis:" + documentID.String() + ":" + hash

	var report domainanalysis.Report
	ran := false
	err = s.cache.GetOrSet(ctx, key, &report, s.cfg.CacheTTL, func(ctx context.Context) (interface{}, error) {
		ran = true
		return s.runAnalysis(ctx, documentID, text, hash)
	})
	if err != nil {
		s.metrics.AnalysisRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if ran {
		s.metrics.CacheMissesTotal.WithLabelValues(cacheName).Inc()
	} else {
		s.metrics.CacheHitsTotal.WithLabelValues(cacheName).Inc()
	}
	return &report, nil
}

func (s *serviceImpl) runAnalysis(ctx context.Context, documentID uuid.UUID, text, hash string) (*domainanalysis.Report, error) {
	start := time.Now()

	result := s.analyzer.Analyze(text)
	report := &domainanalysis.Report{
		ID:         uuid.New(),
		DocumentID: documentID,
		TextHash:   hash,
		Analysis:   result,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.reports.Save(ctx, report); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, kafka.TopicAnalysisCompleted, documentID.String(), kafka.AnalysisCompletedPayload{
		DocumentID:  documentID.String(),
		ReportID:    report.ID.String(),
		RiskScore:   result.RiskScore,
		CompletedAt: report.CreatedAt,
	}); err != nil {
		s.logger.Warn("failed to publish completion event",
			logging.String("document_id", documentID.String()), logging.Err(err))
	}

	s.metrics.AnalysisRunsTotal.WithLabelValues("ok").Inc()
	s.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	s.metrics.RiskScores.Observe(result.RiskScore)

	s.logger.Info("risk analysis completed",
		logging.String("document_id", documentID.String()),
		logging.String("report_id", report.ID.String()),
		logging.Float64("risk_score", result.RiskScore),
	)
	return report, nil
}

func (s *serviceImpl) Suggestions(ctx context.Context, documentID uuid.UUID) (*domainanalysis.Suggestions, error) {
	report, err := s.Analyze(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return risk.Suggest(report.Analysis), nil
}

func (s *serviceImpl) ContractDetails(ctx context.Context, documentID uuid.UUID) (*domainanalysis.ContractDetails, error) {
	text, err := s.loadText(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return sections.ExtractContractDetails(text), nil
}

func (s *serviceImpl) Summarize(ctx context.Context, documentID uuid.UUID) (*domainanalysis.Summary, error) {
	text, err := s.loadText(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return s.sections.Summarize(text), nil
}

func (s *serviceImpl) ExtractSection(ctx context.Context, documentID uuid.UUID, name string) (string, error) {
	if name == "" {
		return "", errors.New(errors.ErrCodeValidation, "section name is required")
	}
	text, err := s.loadText(ctx, documentID)
	if err != nil {
		return "", err
	}
	section, ok := s.sections.Extract(text, name)
	if !ok {
		return "", errors.Newf(errors.ErrCodeSectionNotFound, "section %q not found", name)
	}
	return section, nil
}

func (s *serviceImpl) ClassifyClause(text string) domainanalysis.ClauseType {
	return sections.IdentifyClauseType(text)
}

func (s *serviceImpl) History(ctx context.Context, documentID uuid.UUID) ([]*domainanalysis.Report, error) {
	return s.reports.ListByDocument(ctx, documentID)
}

// loadText fetches the document body, bounded by the configured limit so
// the regex engines never see pathological input.
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

func textHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:16])
}
