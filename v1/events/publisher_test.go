package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewPublisher_InvalidConfig(t *testing.T) {
	_, err := NewPublisher(&Config{Topic: "t"}, nil)
	assert.Error(t, err)

	_, err = NewPublisher(&Config{Brokers: []string{"localhost:9092"}}, nil)
	assert.Error(t, err)
}

func TestPublish(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}

	event := Event{
		Type:    TypeImageIndexed,
		Subject: "00000000-0000-0000-0000-000000000001",
		Model:   "clip-vit-base-patch32",
		Fields:  map[string]any{"collection": "images"},
	}
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, w.messages, 1)
	assert.Equal(t, []byte(event.Subject), w.messages[0].Key)

	var got Event
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &got))
	assert.Equal(t, TypeImageIndexed, got.Type)
	assert.Equal(t, event.Subject, got.Subject)
	assert.Equal(t, event.Model, got.Model)
	assert.False(t, got.At.IsZero(), "publish should stamp missing timestamps")
}

func TestPublish_KeepsExplicitTimestamp(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}

	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, p.Publish(context.Background(), Event{
		Type:    TypeImageDeleted,
		Subject: "some-id",
		At:      at,
	}))

	var got Event
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &got))
	assert.True(t, got.At.Equal(at))
}

func TestPublish_Validation(t *testing.T) {
	p := &Publisher{writer: &fakeWriter{}}

	err := p.Publish(context.Background(), Event{Subject: "x"})
	assert.Error(t, err)

	err = p.Publish(context.Background(), Event{Type: TypeQueryServed})
	assert.Error(t, err)
}

func TestPublish_WriterError(t *testing.T) {
	boom := errors.New("broker unreachable")
	p := &Publisher{writer: &fakeWriter{err: boom}}

	err := p.Publish(context.Background(), Event{Type: TypeQueryServed, Subject: "q"})
	assert.ErrorIs(t, err, boom)
}

type recordingLogger struct {
	errors []string
}

func (l *recordingLogger) Debug(string, error, ...map[string]interface{}) {}

func (l *recordingLogger) Error(msg string, _ error, _ ...map[string]interface{}) {
	l.errors = append(l.errors, msg)
}

func TestNewPublisher_AsyncReportsDeliveryFailures(t *testing.T) {
	log := &recordingLogger{}
	p, err := NewPublisher(&Config{
		Brokers: []string{"localhost:9092"},
		Topic:   "t",
		Async:   true,
	}, log)
	require.NoError(t, err)

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	require.NotNil(t, w.Completion, "async writers need a completion callback to surface failures")

	w.Completion([]kafka.Message{{}}, errors.New("broker unreachable"))
	w.Completion([]kafka.Message{{}}, nil)
	assert.Equal(t, []string{"async event delivery failed"}, log.errors)
}

func TestNewPublisher_SyncHasNoCompletion(t *testing.T) {
	p, err := NewPublisher(&Config{
		Brokers: []string{"localhost:9092"},
		Topic:   "t",
	}, nil)
	require.NoError(t, err)

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Nil(t, w.Completion)
}

func TestClose(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}
