package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/lexatlas/lexatlas/internal/domain/analysis"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/postgres"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

type reportRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewReportRepo returns the PostgreSQL risk-report repository.  The full
// analysis result is stored as a JSONB payload keyed by document and text
// hash.
func NewReportRepo(conn *postgres.Connection, log logging.Logger) analysis.ReportRepository {
	return &reportRepo{conn: conn, log: log, executor: conn.DB()}
}

func (r *reportRepo) Save(ctx context.Context, report *analysis.Report) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	payload, err := json.Marshal(report.Analysis)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode analysis payload")
	}

	query := `
		INSERT INTO risk_reports (id, document_id, text_hash, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err = r.executor.QueryRowContext(ctx, query, report.ID, report.DocumentID, report.TextHash, payload).
		Scan(&report.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeReportPersistFailed, "failed to save risk report")
	}
	return nil
}

func (r *reportRepo) FindByID(ctx context.Context, id uuid.UUID) (*analysis.Report, error) {
	query := `
		SELECT id, document_id, text_hash, payload, created_at
		FROM risk_reports WHERE id = $1
	`
	report, err := scanReport(r.executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrCodeReportNotFound, "risk report not found").WithDetail(id.String())
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load risk report")
	}
	return report, nil
}

func (r *reportRepo) FindLatestByDocument(ctx context.Context, documentID uuid.UUID) (*analysis.Report, error) {
	query := `
		SELECT id, document_id, text_hash, payload, created_at
		FROM risk_reports
		WHERE document_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	report, err := scanReport(r.executor.QueryRowContext(ctx, query, documentID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrCodeReportNotFound, "no risk report for document").
				WithDetail(documentID.String())
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load risk report")
	}
	return report, nil
}

func (r *reportRepo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*analysis.Report, error) {
	query := `
		SELECT id, document_id, text_hash, payload, created_at
		FROM risk_reports
		WHERE document_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.executor.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list risk reports")
	}
	defer rows.Close()

	reports := []*analysis.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan risk report row")
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "risk report iteration failed")
	}
	return reports, nil
}

func (r *reportRepo) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	if _, err := r.executor.ExecContext(ctx, `DELETE FROM risk_reports WHERE document_id = $1`, documentID); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete risk reports")
	}
	return nil
}

func scanReport(s scanner) (*analysis.Report, error) {
	report := &analysis.Report{}
	var payload []byte
	if err := s.Scan(&report.ID, &report.DocumentID, &report.TextHash, &payload, &report.CreatedAt); err != nil {
		return nil, err
	}
	if len(payload) > 0 {
		report.Analysis = &analysis.RiskAnalysis{}
		if err := json.Unmarshal(payload, report.Analysis); err != nil {
			return nil, err
		}
	}
	return report, nil
}
