package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event types emitted by the retrieval pipeline.
const (
	TypeImageIndexed = "image.indexed"
	TypeImageDeleted = "image.deleted"
	TypeQueryServed  = "query.served"
)

// Event is one lifecycle notification. Subject identifies the entity the
// event is about (an image ID or a query digest); Fields carry
// type-specific details.
type Event struct {
	Type    string         `json:"type"`
	Subject string         `json:"subject"`
	Model   string         `json:"model,omitempty"`
	At      time.Time      `json:"at"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// Logger is the minimal logging interface the publisher needs.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// messageWriter is the subset of kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher emits pipeline lifecycle events to Kafka. Events are keyed by
// subject so consumers see per-entity ordering.
type Publisher struct {
	writer messageWriter
	logger Logger
}

// NewPublisher creates a Kafka-backed publisher.
func NewPublisher(cfg *Config, log Logger) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: DefaultBatchTimeout,
		WriteTimeout: DefaultWriteTimeout,
		Async:        cfg.Async,
		RequiredAcks: kafka.RequireOne,
	}

	if cfg.Async {
		// Async WriteMessages returns before delivery, so failures can only
		// surface through the completion callback.
		writer.Completion = func(messages []kafka.Message, err error) {
			if err == nil || log == nil {
				return
			}
			log.Error("async event delivery failed", err, map[string]interface{}{
				"count": len(messages),
			})
		}
	}

	return &Publisher{writer: writer, logger: log}, nil
}

// Publish sends one event. A zero At is stamped with the current time.
// With an async writer the returned error covers enqueueing only; delivery
// failures are reported through the writer's completion callback.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if event.Type == "" {
		return fmt.Errorf("events: event has no type")
	}
	if event.Subject == "" {
		return fmt.Errorf("events: event has no subject")
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: encode event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Subject),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("events: publish %s: %w", event.Type, err)
	}

	if p.logger != nil {
		p.logger.Debug("published event", nil, map[string]interface{}{
			"type":    event.Type,
			"subject": event.Subject,
		})
	}

	return nil
}

// Close flushes pending messages and shuts down the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
