package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/lexatlas/lexatlas/internal/config"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

const producerSource = "lexatlas"

// writerInterface abstracts kafka.Writer for testing.
type writerInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes event envelopes.
type Producer struct {
	writer writerInterface
	logger logging.Logger
	closed atomic.Bool
}

// NewProducer creates a Producer against the configured brokers.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "kafka brokers not configured")
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = time.Second
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	retries := cfg.ProducerRetries
	if retries <= 0 {
		retries = 3
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  retries,
		BatchSize:    batchSize,
		BatchTimeout: batchTimeout,
		Compression:  kafka.Snappy,
	}

	return &Producer{writer: writer, logger: log}, nil
}

// newProducerWithWriter is used by tests.
func newProducerWithWriter(w writerInterface, log logging.Logger) *Producer {
	return &Producer{writer: w, logger: log}
}

// Publish wraps payload in an EventEnvelope and writes it to topic.  The
// key controls partition affinity; pass the document ID so events for one
// document stay ordered.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	if p.closed.Load() {
		return errors.New(errors.ErrCodeMessagingError, "producer is closed")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event payload")
	}

	envelope := EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     topic,
		Source:        producerSource,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: schemaVersion,
		Payload:       raw,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event envelope")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: body,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish event",
			logging.String("topic", topic),
			logging.String("key", key),
			logging.Err(err),
		)
		return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to publish event")
	}

	p.logger.Debug("event published",
		logging.String("topic", topic),
		logging.String("event_id", envelope.EventID),
	)
	return nil
}

// Close flushes and shuts the producer down.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
