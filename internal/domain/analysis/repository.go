package analysis

import (
	"context"

	"github.com/google/uuid"
)

// ReportRepository persists and retrieves risk-analysis runs.
type ReportRepository interface {
	Save(ctx context.Context, report *Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*Report, error)
	FindLatestByDocument(ctx context.Context, documentID uuid.UUID) (*Report, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*Report, error)
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error
}
