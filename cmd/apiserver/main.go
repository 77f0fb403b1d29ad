// The apiserver binary runs the LexAtlas REST API: document ingestion,
// risk analysis, comparison, citation graph, and question answering.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lexatlas/lexatlas/internal/application/analysis"
	"github.com/lexatlas/lexatlas/internal/application/comparison"
	"github.com/lexatlas/lexatlas/internal/application/graph"
	"github.com/lexatlas/lexatlas/internal/application/ingest"
	"github.com/lexatlas/lexatlas/internal/application/qa"
	"github.com/lexatlas/lexatlas/internal/config"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/neo4j"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/postgres"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/postgres/repositories"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/redis"
	"github.com/lexatlas/lexatlas/internal/infrastructure/llm"
	"github.com/lexatlas/lexatlas/internal/infrastructure/messaging/kafka"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
	"github.com/lexatlas/lexatlas/internal/infrastructure/search/milvus"
	"github.com/lexatlas/lexatlas/internal/infrastructure/search/opensearch"
	"github.com/lexatlas/lexatlas/internal/infrastructure/storage/minio"
	httpserver "github.com/lexatlas/lexatlas/internal/interfaces/http"
	"github.com/lexatlas/lexatlas/internal/interfaces/http/handlers"
	"github.com/lexatlas/lexatlas/internal/interfaces/http/middleware"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "apiserver:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      cfg.Log.OutputPaths,
		ErrorOutputPaths: cfg.Log.ErrorOutputPaths,
	})
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := prometheus.NewMetrics()

	// Relational store and schema.
	dsn := postgres.BuildDSN(cfg.Database)
	if cfg.Database.MigrationPath != "" {
		if err := postgres.RunMigrations(dsn, cfg.Database.MigrationPath); err != nil {
			return err
		}
	}
	pg, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	docRepo := repositories.NewDocumentRepo(pg, logger)
	chunkRepo := repositories.NewChunkRepo(pg, logger)
	reportRepo := repositories.NewReportRepo(pg, logger)

	// Citation graph store.
	graphDriver, err := neo4j.NewDriver(cfg.Neo4j, logger)
	if err != nil {
		return err
	}
	defer graphDriver.Close(context.Background())
	graphRepo := neo4j.NewCitationGraphRepo(graphDriver, logger)

	// Cache.
	redisClient, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, logger)

	// Vector store.
	milvusClient, err := milvus.NewClient(ctx, cfg.Milvus, logger)
	if err != nil {
		return err
	}
	defer milvusClient.Close()
	chunkStore := milvus.NewChunkStore(milvusClient, logger)
	if err := chunkStore.EnsureCollection(ctx); err != nil {
		return err
	}

	// Full-text index.
	osClient, err := opensearch.NewClient(ctx, cfg.OpenSearch, logger)
	if err != nil {
		return err
	}
	indexer := opensearch.NewIndexer(osClient, logger)
	if err := indexer.EnsureIndex(ctx); err != nil {
		return err
	}
	searcher := opensearch.NewSearcher(osClient, logger)

	// Object storage.
	objectStore, err := minio.NewStore(ctx, cfg.MinIO, logger)
	if err != nil {
		return err
	}

	// Events.
	producer, err := kafka.NewProducer(cfg.Kafka, logger)
	if err != nil {
		return err
	}
	defer producer.Close()

	// Model access.
	llmClient, err := llm.NewClient(cfg.LLM, logger)
	if err != nil {
		return err
	}

	ingestSvc := ingest.NewService(docRepo, chunkRepo, objectStore, chunkStore,
		indexer, llmClient, producer, cfg.Analysis, metrics, logger)
	analysisSvc := analysis.NewService(docRepo, reportRepo, cache, producer,
		cfg.Analysis, metrics, logger)
	comparisonSvc := comparison.NewService(docRepo, cache, cfg.Analysis, metrics, logger)
	graphSvc := graph.NewService(docRepo, graphRepo, cfg.Analysis, metrics, logger)
	qaSvc := qa.NewService(llmClient, chunkStore, llmClient, searcher, cache,
		cfg.LLM, cfg.Analysis.CacheTTL, metrics, logger)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Documents:  handlers.NewDocumentHandler(ingestSvc),
		Analysis:   handlers.NewAnalysisHandler(analysisSvc),
		Comparison: handlers.NewComparisonHandler(comparisonSvc),
		Graph:      handlers.NewGraphHandler(graphSvc),
		QA:         handlers.NewQAHandler(qaSvc),
		Health: handlers.NewHealthHandler(map[string]handlers.HealthChecker{
			"postgres":   pg,
			"neo4j":      graphDriver,
			"redis":      redisClient,
			"milvus":     milvusClient,
			"opensearch": osClient,
		}),
		CORS:      &middleware.CORSConfig{},
		RateLimit: &middleware.RateLimitConfig{},
		Mode:      cfg.Server.Mode,
		Logger:    logger,
		Metrics:   metrics,
	})

	server := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return server.Shutdown(context.Background())
}
