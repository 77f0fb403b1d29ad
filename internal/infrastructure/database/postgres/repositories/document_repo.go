package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/lexatlas/lexatlas/internal/domain/document"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/postgres"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

type documentRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewDocumentRepo returns the PostgreSQL document repository.
func NewDocumentRepo(conn *postgres.Connection, log logging.Logger) document.Repository {
	return &documentRepo{conn: conn, log: log, executor: conn.DB()}
}

func (r *documentRepo) Save(ctx context.Context, doc *document.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	query := `
		INSERT INTO documents (id, filename, doc_type, body, char_count, storage_path)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.executor.QueryRowContext(ctx, query,
		doc.ID, doc.Filename, doc.DocType, doc.Text, doc.CharCount, doc.StoragePath,
	).Scan(&doc.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to save document")
	}
	return nil
}

func (r *documentRepo) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	query := `
		SELECT id, filename, doc_type, body, char_count, storage_path, created_at
		FROM documents WHERE id = $1
	`
	doc, err := scanDocument(r.executor.QueryRowContext(ctx, query, id), true)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrCodeDocumentNotFound, "document not found").
				WithDetail(id.String())
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load document")
	}
	return doc, nil
}

func (r *documentRepo) List(ctx context.Context, limit, offset int) ([]*document.Document, int64, error) {
	var total int64
	if err := r.executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count documents")
	}

	query := `
		SELECT id, filename, doc_type, char_count, storage_path, created_at
		FROM documents
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.executor.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list documents")
	}
	defer rows.Close()

	docs := []*document.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows, false)
		if err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan document row")
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "document row iteration failed")
	}
	return docs, total, nil
}

func (r *documentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.executor.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete document")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeDocumentNotFound, "document not found").WithDetail(id.String())
	}
	return nil
}

func scanDocument(s scanner, withBody bool) (*document.Document, error) {
	doc := &document.Document{}
	var storagePath sql.NullString

	var err error
	if withBody {
		err = s.Scan(&doc.ID, &doc.Filename, &doc.DocType, &doc.Text, &doc.CharCount, &storagePath, &doc.CreatedAt)
	} else {
		err = s.Scan(&doc.ID, &doc.Filename, &doc.DocType, &doc.CharCount, &storagePath, &doc.CreatedAt)
	}
	if err != nil {
		return nil, err
	}
	doc.StoragePath = storagePath.String
	return doc, nil
}

type chunkRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewChunkRepo returns the PostgreSQL chunk repository.
func NewChunkRepo(conn *postgres.Connection, log logging.Logger) document.ChunkRepository {
	return &chunkRepo{conn: conn, log: log, executor: conn.DB()}
}

func (r *chunkRepo) SaveBatch(ctx context.Context, chunks []*document.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := r.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}

	query := `
		INSERT INTO document_chunks (id, document_id, seq, content, detected_sections)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, c := range chunks {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		sectionsJSON, _ := json.Marshal(c.DetectedSections)
		if _, err := tx.ExecContext(ctx, query, c.ID, c.DocumentID, c.Seq, c.Content, sectionsJSON); err != nil {
			tx.Rollback()
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert chunk")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit chunk batch")
	}
	return nil
}

func (r *chunkRepo) FindByDocument(ctx context.Context, documentID uuid.UUID) ([]*document.Chunk, error) {
	query := `
		SELECT id, document_id, seq, content, detected_sections
		FROM document_chunks
		WHERE document_id = $1
		ORDER BY seq
	`
	rows, err := r.executor.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load chunks")
	}
	defer rows.Close()

	chunks := []*document.Chunk{}
	for rows.Next() {
		c := &document.Chunk{}
		var sectionsJSON []byte
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Seq, &c.Content, &sectionsJSON); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan chunk row")
		}
		if len(sectionsJSON) > 0 {
			if err := json.Unmarshal(sectionsJSON, &c.DetectedSections); err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeSerialization, "invalid detected_sections payload")
			}
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "chunk row iteration failed")
	}
	return chunks, nil
}

func (r *chunkRepo) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	if _, err := r.executor.ExecContext(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentID); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete chunks")
	}
	return nil
}
