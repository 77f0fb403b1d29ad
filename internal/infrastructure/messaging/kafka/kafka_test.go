package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	segkafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

type fakeWriter struct {
	msgs   []segkafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...segkafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducerPublishWrapsEnvelope(t *testing.T) {
	w := &fakeWriter{}
	p := newProducerWithWriter(w, logging.NewNopLogger())

	payload := AnalyzeRequestedPayload{DocumentID: "doc-1", RequestedAt: time.Now().UTC()}
	err := p.Publish(context.Background(), TopicDocumentAnalyze, "doc-1", payload)
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, TopicDocumentAnalyze, msg.Topic)
	assert.Equal(t, "doc-1", string(msg.Key))

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	assert.NotEmpty(t, envelope.EventID)
	assert.Equal(t, TopicDocumentAnalyze, envelope.EventType)
	assert.Equal(t, "lexatlas", envelope.Source)
	assert.Equal(t, "1.0", envelope.SchemaVersion)

	var decoded AnalyzeRequestedPayload
	require.NoError(t, json.Unmarshal(envelope.Payload, &decoded))
	assert.Equal(t, "doc-1", decoded.DocumentID)
}

func TestProducerPublishAfterClose(t *testing.T) {
	w := &fakeWriter{}
	p := newProducerWithWriter(w, logging.NewNopLogger())
	require.NoError(t, p.Close())
	assert.True(t, w.closed)

	err := p.Publish(context.Background(), TopicDocumentAnalyze, "k", struct{}{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMessagingError))

	// Second close is a no-op.
	require.NoError(t, p.Close())
}

func envelopeMessage(t *testing.T, topic string, payload interface{}) segkafka.Message {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	body, err := json.Marshal(EventEnvelope{
		EventID:       "ev-1",
		EventType:     topic,
		Source:        "lexatlas",
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "1.0",
		Payload:       raw,
	})
	require.NoError(t, err)
	return segkafka.Message{Topic: topic, Key: []byte("doc-1"), Value: body}
}

func newTestConsumer(producer *Producer) *Consumer {
	return &Consumer{
		producer:     producer,
		logger:       logging.NewNopLogger(),
		handlers:     make(map[string]Handler),
		maxRetries:   2,
		retryBackoff: time.Millisecond,
	}
}

func TestConsumerProcessInvokesHandler(t *testing.T) {
	c := newTestConsumer(nil)

	var got EventEnvelope
	c.Register(TopicDocumentAnalyze, func(_ context.Context, env EventEnvelope) error {
		got = env
		return nil
	})

	msg := envelopeMessage(t, TopicDocumentAnalyze, AnalyzeRequestedPayload{DocumentID: "doc-1"})
	c.process(context.Background(), msg)

	assert.Equal(t, "ev-1", got.EventID)
	processed, failed := c.Stats()
	assert.Equal(t, int64(1), processed)
	assert.Equal(t, int64(0), failed)
}

func TestConsumerProcessRetriesThenDeadLetters(t *testing.T) {
	dlq := &fakeWriter{}
	producer := newProducerWithWriter(dlq, logging.NewNopLogger())
	c := newTestConsumer(producer)

	attempts := 0
	c.Register(TopicDocumentAnalyze, func(context.Context, EventEnvelope) error {
		attempts++
		return errors.New(errors.ErrCodeAnalysisFailed, "boom")
	})

	msg := envelopeMessage(t, TopicDocumentAnalyze, AnalyzeRequestedPayload{DocumentID: "doc-1"})
	c.process(context.Background(), msg)

	// Initial attempt plus maxRetries.
	assert.Equal(t, 3, attempts)
	processed, failed := c.Stats()
	assert.Equal(t, int64(0), processed)
	assert.Equal(t, int64(1), failed)

	require.Len(t, dlq.msgs, 1)
	assert.Equal(t, TopicDeadLetter, dlq.msgs[0].Topic)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(dlq.msgs[0].Value, &envelope))
	var dead DeadLetterPayload
	require.NoError(t, json.Unmarshal(envelope.Payload, &dead))
	assert.Equal(t, TopicDocumentAnalyze, dead.OriginTopic)
	assert.Equal(t, msg.Value, []byte(dead.Raw))
}

func TestConsumerProcessMalformedEnvelope(t *testing.T) {
	dlq := &fakeWriter{}
	producer := newProducerWithWriter(dlq, logging.NewNopLogger())
	c := newTestConsumer(producer)
	c.Register(TopicDocumentAnalyze, func(context.Context, EventEnvelope) error {
		t.Fatal("handler must not run on malformed input")
		return nil
	})

	c.process(context.Background(), segkafka.Message{Topic: TopicDocumentAnalyze, Value: []byte("{not json")})

	_, failed := c.Stats()
	assert.Equal(t, int64(1), failed)
	require.Len(t, dlq.msgs, 1)
}

func TestConsumerProcessUnknownTopic(t *testing.T) {
	c := newTestConsumer(nil)
	c.process(context.Background(), envelopeMessage(t, "unknown.topic", struct{}{}))
	processed, failed := c.Stats()
	assert.Equal(t, int64(0), processed)
	assert.Equal(t, int64(0), failed)
}
