// The worker binary consumes analysis requests from Kafka and runs the
// risk engines asynchronously, so uploads return before analysis
// completes.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/lexatlas/lexatlas/internal/application/analysis"
	"github.com/lexatlas/lexatlas/internal/config"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/postgres"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/postgres/repositories"
	"github.com/lexatlas/lexatlas/internal/infrastructure/database/redis"
	"github.com/lexatlas/lexatlas/internal/infrastructure/messaging/kafka"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "worker:", err)
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
	logger = logger.Named("worker")
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := prometheus.NewMetrics()

	pg, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	docRepo := repositories.NewDocumentRepo(pg, logger)
	reportRepo := repositories.NewReportRepo(pg, logger)

	redisClient, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, logger)

	producer, err := kafka.NewProducer(cfg.Kafka, logger)
	if err != nil {
		return err
	}
	defer producer.Close()

	analysisSvc := analysis.NewService(docRepo, reportRepo, cache, producer,
		cfg.Analysis, metrics, logger)

	consumer, err := kafka.NewConsumer(cfg.Kafka, cfg.Worker,
		[]string{kafka.TopicDocumentAnalyze}, producer, logger)
	if err != nil {
		return err
	}
	defer consumer.Close()

	consumer.Register(kafka.TopicDocumentAnalyze, analyzeHandler(analysisSvc, logger))

	logger.Info("worker consuming", logging.String("topic", kafka.TopicDocumentAnalyze))
	return consumer.Run(ctx)
}

// analyzeHandler runs the risk analysis for the referenced document.  A
// missing document is dropped rather than retried: deletion racing the
// analyze event is expected.
func analyzeHandler(svc analysis.Service, logger logging.Logger) kafka.Handler {
	return func(ctx context.Context, envelope kafka.EventEnvelope) error {
		var payload kafka.AnalyzeRequestedPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "decoding analyze payload")
		}
		documentID, err := uuid.Parse(payload.DocumentID)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeValidation, "parsing document id")
		}

		report, err := svc.Analyze(ctx, documentID)
		if err != nil {
			if errors.IsCode(err, errors.ErrCodeDocumentNotFound) {
				logger.Warn("document gone before analysis, dropping event",
					logging.String("document_id", payload.DocumentID))
				return nil
			}
			return err
		}

		logger.Info("analysis completed",
			logging.String("document_id", payload.DocumentID),
			logging.String("report_id", report.ID.String()),
			logging.Float64("risk_score", report.Analysis.RiskScore),
		)
		return nil
	}
}
