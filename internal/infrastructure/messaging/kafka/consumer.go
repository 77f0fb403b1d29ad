package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/lexatlas/lexatlas/internal/config"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

// Handler processes one decoded event envelope.  Returning an error
// triggers the retry policy; after retries are exhausted the raw message
// is forwarded to the dead-letter topic.
type Handler func(ctx context.Context, envelope EventEnvelope) error

// readerInterface abstracts kafka.Reader for testing.
type readerInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer runs a fetch/handle/commit loop over the registered topics.
type Consumer struct {
	reader       readerInterface
	producer     *Producer
	logger       logging.Logger
	handlers     map[string]Handler
	maxRetries   int
	retryBackoff time.Duration
	closed       atomic.Bool

	processed atomic.Int64
	failed    atomic.Int64
}

// NewConsumer builds a Consumer over the given topics.  The producer is
// used only for dead-letter publishing and may be shared with the rest
// of the application.
func NewConsumer(cfg config.KafkaConfig, worker config.WorkerConfig, topics []string, producer *Producer, log logging.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "kafka brokers not configured")
	}
	if len(topics) == 0 {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "no topics to consume")
	}

	startOffset := kafka.LastOffset
	if cfg.AutoOffsetReset == "earliest" {
		startOffset = kafka.FirstOffset
	}
	commitInterval := worker.CommitInterval
	if commitInterval <= 0 {
		commitInterval = time.Second
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		GroupTopics:    topics,
		StartOffset:    startOffset,
		MinBytes:       1,
		MaxBytes:       10 << 20,
		CommitInterval: commitInterval,
	})

	maxRetries := worker.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryBackoff := worker.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = 2 * time.Second
	}

	return &Consumer{
		reader:       reader,
		producer:     producer,
		logger:       log,
		handlers:     make(map[string]Handler),
		maxRetries:   maxRetries,
		retryBackoff: retryBackoff,
	}, nil
}

// Register binds a handler to a topic.  Must be called before Run.
func (c *Consumer) Register(topic string, h Handler) {
	c.handlers[topic] = h
}

// Run blocks until ctx is cancelled or the reader fails terminally.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to fetch message")
		}

		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("failed to commit offset",
				logging.String("topic", msg.Topic),
				logging.Err(err),
			)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	handler, ok := c.handlers[msg.Topic]
	if !ok {
		c.logger.Warn("no handler registered for topic", logging.String("topic", msg.Topic))
		return
	}

	var envelope EventEnvelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		c.failed.Add(1)
		c.logger.Error("malformed event envelope",
			logging.String("topic", msg.Topic),
			logging.Err(err),
		)
		c.deadLetter(ctx, msg, "malformed envelope")
		return
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.retryBackoff * time.Duration(attempt)):
			}
		}
		if lastErr = handler(ctx, envelope); lastErr == nil {
			c.processed.Add(1)
			return
		}
		c.logger.Warn("event handler failed",
			logging.String("topic", msg.Topic),
			logging.String("event_id", envelope.EventID),
			logging.Int("attempt", attempt+1),
			logging.Err(lastErr),
		)
	}

	c.failed.Add(1)
	c.logger.Error("event handler exhausted retries",
		logging.String("topic", msg.Topic),
		logging.String("event_id", envelope.EventID),
		logging.Err(lastErr),
	)
	c.deadLetter(ctx, msg, lastErr.Error())
}

func (c *Consumer) deadLetter(ctx context.Context, msg kafka.Message, reason string) {
	if c.producer == nil {
		return
	}
	payload := DeadLetterPayload{
		OriginTopic: msg.Topic,
		Reason:      reason,
		Raw:         msg.Value,
		FailedAt:    time.Now().UTC(),
	}
	if err := c.producer.Publish(ctx, TopicDeadLetter, string(msg.Key), payload); err != nil {
		c.logger.Error("failed to publish dead letter",
			logging.String("origin_topic", msg.Topic),
			logging.Err(err),
		)
	}
}

// Stats reports processed and failed message counts since start.
func (c *Consumer) Stats() (processed, failed int64) {
	return c.processed.Load(), c.failed.Load()
}

// Close shuts the underlying reader down.
func (c *Consumer) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.reader.Close()
}
