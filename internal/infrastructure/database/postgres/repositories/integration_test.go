//go:build integration

// Integration tests for the PostgreSQL repositories. Tests require Docker
// and are gated behind the "integration" build tag.
package repositories_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lexatlas/lexatlas/internal/domain/analysis"
	"github.com/lexatlas/lexatlas/internal/domain/document"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/postgres"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/postgres/repositories"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
)

// startPostgres launches a PostgreSQL 16 container and returns a connected pool.
func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "lexatlas_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/lexatlas_test?sslmode=disable", host, port.Port())
	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	applySchema(t, db)
	return db
}

func applySchema(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx := context.Background()

	ddl := `
	CREATE TABLE IF NOT EXISTS documents (
		id           UUID PRIMARY KEY,
		filename     TEXT NOT NULL,
		doc_type     TEXT NOT NULL DEFAULT 'contract',
		body         TEXT NOT NULL,
		char_count   INTEGER NOT NULL DEFAULT 0,
		storage_path TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS document_chunks (
		id                UUID PRIMARY KEY,
		document_id       UUID NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
		seq               INTEGER NOT NULL,
		content           TEXT NOT NULL,
		detected_sections JSONB NOT NULL DEFAULT '[]'::jsonb
	);
	CREATE TABLE IF NOT EXISTS risk_reports (
		id          UUID PRIMARY KEY,
		document_id UUID NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
		text_hash   TEXT NOT NULL,
		payload     JSONB NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);`
	_, err := db.ExecContext(ctx, ddl)
	require.NoError(t, err)
}

func seedDocument(t *testing.T, repo document.Repository, filename string) *document.Document {
	t.Helper()
	doc := &document.Document{
		Filename:  filename,
		DocType:   document.TypeContract,
		Text:      "SECTION 1. TERMINATION\neither party may terminate with thirty days notice.",
		CharCount: 72,
	}
	require.NoError(t, repo.Save(context.Background(), doc))
	require.NotEqual(t, uuid.Nil, doc.ID)
	require.False(t, doc.CreatedAt.IsZero())
	return doc
}

func TestDocumentRepoRoundTrip(t *testing.T) {
	db := startPostgres(t)
	conn := postgres.NewConnectionWithDB(db, logging.NewNopLogger())
	repo := repositories.NewDocumentRepo(conn, logging.NewNopLogger())
	ctx := context.Background()

	doc := seedDocument(t, repo, "lease.txt")

	got, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Filename, got.Filename)
	assert.Equal(t, doc.Text, got.Text)
	assert.Equal(t, document.TypeContract, got.DocType)

	seedDocument(t, repo, "nda.txt")

	listed, total, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, listed, 2)
	// List omits bodies.
	assert.Empty(t, listed[0].Text)

	require.NoError(t, repo.Delete(ctx, doc.ID))
	_, err = repo.FindByID(ctx, doc.ID)
	assert.Error(t, err)
}

func TestChunkRepoCascade(t *testing.T) {
	db := startPostgres(t)
	conn := postgres.NewConnectionWithDB(db, logging.NewNopLogger())
	docRepo := repositories.NewDocumentRepo(conn, logging.NewNopLogger())
	chunkRepo := repositories.NewChunkRepo(conn, logging.NewNopLogger())
	ctx := context.Background()

	doc := seedDocument(t, docRepo, "msa.txt")

	chunks := []*document.Chunk{
		{DocumentID: doc.ID, Seq: 0, Content: "first passage", DetectedSections: []string{"1"}},
		{DocumentID: doc.ID, Seq: 1, Content: "second passage", DetectedSections: []string{"unknown"}},
	}
	require.NoError(t, chunkRepo.SaveBatch(ctx, chunks))

	got, err := chunkRepo.FindByDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Seq)
	assert.Equal(t, []string{"1"}, got[0].DetectedSections)

	// Deleting the parent document cascades to its chunks.
	require.NoError(t, docRepo.Delete(ctx, doc.ID))
	got, err = chunkRepo.FindByDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReportRepoLatestWins(t *testing.T) {
	db := startPostgres(t)
	conn := postgres.NewConnectionWithDB(db, logging.NewNopLogger())
	docRepo := repositories.NewDocumentRepo(conn, logging.NewNopLogger())
	reportRepo := repositories.NewReportRepo(conn, logging.NewNopLogger())
	ctx := context.Background()

	doc := seedDocument(t, docRepo, "services.txt")

	first := &analysis.Report{
		DocumentID: doc.ID,
		TextHash:   "hash-1",
		Analysis:   &analysis.RiskAnalysis{RiskScore: 10},
	}
	require.NoError(t, reportRepo.Save(ctx, first))
	time.Sleep(20 * time.Millisecond)

	second := &analysis.Report{
		DocumentID: doc.ID,
		TextHash:   "hash-2",
		Analysis:   &analysis.RiskAnalysis{RiskScore: 55.5},
	}
	require.NoError(t, reportRepo.Save(ctx, second))

	latest, err := reportRepo.FindLatestByDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-2", latest.TextHash)
	assert.Equal(t, 55.5, latest.Analysis.RiskScore)

	all, err := reportRepo.ListByDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "hash-2", all[0].TextHash)

	require.NoError(t, reportRepo.DeleteByDocument(ctx, doc.ID))
	all, err = reportRepo.ListByDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, all)
}
