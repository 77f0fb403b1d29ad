package document

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Repository persists documents.  The postgres implementation lives under
// internal/infrastructure/database/postgres/repositories.
type Repository interface {
	Save(ctx context.Context, doc *Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	// List returns documents without their text bodies, newest first.
	List(ctx context.Context, limit, offset int) ([]*Document, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChunkRepository persists retrieval chunks alongside their parent
// document.
type ChunkRepository interface {
	SaveBatch(ctx context.Context, chunks []*Chunk) error
	FindByDocument(ctx context.Context, documentID uuid.UUID) ([]*Chunk, error)
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error
}

// ObjectStore stores the raw uploaded payloads.  The minio implementation
// lives under internal/infrastructure/storage/minio.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}
