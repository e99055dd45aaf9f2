package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/vantage-ml/multimodal/v1/retrieval"
)

const (
	heartbeatInterval = 2 * time.Second
	reconnectDelay    = time.Second
)

// Indexer is the slice of the retrieval service the consumer needs.
// *retrieval.Service satisfies it.
type Indexer interface {
	IndexImage(ctx context.Context, req retrieval.IndexRequest) (*retrieval.IndexResult, error)
}

// Logger is the minimal logging interface the consumer needs.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// delivery is the acknowledgeable message slice handleDelivery works on.
// amqpDelivery adapts amqp.Delivery to it.
type delivery interface {
	Body() []byte
	Ack() error
	// Nack rejects the message. requeue false routes it to the dead-letter
	// queue.
	Nack(requeue bool) error
}

type amqpDelivery struct {
	d *amqp.Delivery
}

func (a amqpDelivery) Body() []byte { return a.d.Body }

func (a amqpDelivery) Ack() error { return a.d.Ack(false) }

func (a amqpDelivery) Nack(requeue bool) error { return a.d.Nack(false, requeue) }

// Consumer pulls index jobs off RabbitMQ and feeds them to the retrieval
// service. Jobs that fail permanently (unparseable, undecodable images) are
// dead-lettered; transient failures are requeued.
type Consumer struct {
	cfg     Config
	indexer Indexer
	logger  Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel

	shutdownSignal chan struct{}
	shutdownOnce   sync.Once
}

// NewConsumer connects to the broker and declares the exchange, the job
// queue and its dead-letter topology. A nil logger disables logging.
func NewConsumer(cfg *Config, indexer Indexer, log Logger) (*Consumer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ingest: invalid config: %w", err)
	}
	if indexer == nil {
		return nil, fmt.Errorf("ingest: indexer is required")
	}

	c := &Consumer{
		cfg:            cfg.withDefaults(),
		indexer:        indexer,
		logger:         log,
		shutdownSignal: make(chan struct{}),
	}

	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

// connect dials the broker and sets up the channel topology. Held lock-free;
// callers serialize through reconnect or construction.
func (c *Consumer) connect() error {
	conn, err := amqp.DialConfig(c.cfg.url(), amqp.Config{Heartbeat: heartbeatInterval})
	if err != nil {
		return fmt.Errorf("ingest: connect to %s:%d: %w", c.cfg.Host, c.cfg.Port, err)
	}

	ch, err := declareTopology(conn, c.cfg)
	if err != nil {
		_ = conn.Close()
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = ch
	c.mu.Unlock()

	c.logInfo("connected to broker", nil, map[string]interface{}{
		"queue": c.cfg.Queue,
	})
	return nil
}

// declareTopology creates the job exchange and queue plus the dead-letter
// pair failed jobs are routed to.
func declareTopology(conn *amqp.Connection, cfg Config) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("ingest: open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("ingest: declare exchange: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.dlxExchange(), "direct", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("ingest: declare dead-letter exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(cfg.dlxQueue(), true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("ingest: declare dead-letter queue: %w", err)
	}
	if err := ch.QueueBind(cfg.dlxQueue(), cfg.RoutingKey, cfg.dlxExchange(), false, nil); err != nil {
		return nil, fmt.Errorf("ingest: bind dead-letter queue: %w", err)
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    cfg.dlxExchange(),
		"x-dead-letter-routing-key": cfg.RoutingKey,
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, args); err != nil {
		return nil, fmt.Errorf("ingest: declare queue: %w", err)
	}
	if err := ch.QueueBind(cfg.Queue, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("ingest: bind queue: %w", err)
	}

	if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
		return nil, fmt.Errorf("ingest: set qos: %w", err)
	}

	return ch, nil
}

// Run consumes jobs until the context is canceled or Close is called. It
// re-establishes the consumer after connection failures.
func (c *Consumer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.shutdownSignal:
			return
		default:
		}

		c.mu.RLock()
		ch := c.channel
		c.mu.RUnlock()

		deliveries, err := ch.Consume(c.cfg.Queue, "", false, false, false, false, nil)
		if err != nil {
			c.logError("failed to start consuming", err, map[string]interface{}{
				"queue": c.cfg.Queue,
			})
			if !c.reconnect(ctx) {
				return
			}
			continue
		}

		if !c.consumeLoop(ctx, deliveries) {
			return
		}
		// Delivery channel closed underneath us; reconnect and resume.
		if !c.reconnect(ctx) {
			return
		}
	}
}

// consumeLoop fans deliveries out to the worker pool. It returns false when
// the consumer should stop and true when the delivery channel closed and a
// reconnect should follow.
func (c *Consumer) consumeLoop(ctx context.Context, deliveries <-chan amqp.Delivery) bool {
	var wg sync.WaitGroup
	jobs := make(chan amqp.Delivery)

	for i := 0; i < c.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range jobs {
				c.handleDelivery(ctx, amqpDelivery{d: &d})
			}
		}()
	}

	resume := true
loop:
	for {
		select {
		case <-ctx.Done():
			resume = false
			break loop
		case <-c.shutdownSignal:
			resume = false
			break loop
		case d, ok := <-deliveries:
			if !ok {
				break loop
			}
			jobs <- d
		}
	}

	close(jobs)
	wg.Wait()
	return resume
}

// handleDelivery processes one job. Permanent failures (malformed envelopes,
// payloads that are not decodable images) go straight to the dead-letter
// queue since redelivering the same bytes can never succeed; transient index
// failures are requeued once the broker redelivers them.
func (c *Consumer) handleDelivery(ctx context.Context, d delivery) {
	req, err := decodeJob(d.Body())
	if err != nil {
		c.logWarn("dead-lettering malformed job", err, nil)
		if nackErr := d.Nack(false); nackErr != nil {
			c.logError("failed to nack job", nackErr, nil)
		}
		return
	}

	res, err := c.indexer.IndexImage(ctx, req)
	if err != nil {
		requeue := !errors.Is(err, retrieval.ErrBadImage)
		if requeue {
			c.logError("failed to index job", err, map[string]interface{}{
				"label": req.Label,
			})
		} else {
			c.logWarn("dead-lettering undecodable image job", err, map[string]interface{}{
				"label": req.Label,
			})
		}
		if nackErr := d.Nack(requeue); nackErr != nil {
			c.logError("failed to nack job", nackErr, nil)
		}
		return
	}

	c.logInfo("indexed job", nil, map[string]interface{}{
		"id":         res.ID,
		"object_key": res.ObjectKey,
	})
	if err := d.Ack(); err != nil {
		c.logError("failed to ack job", err, map[string]interface{}{"id": res.ID})
	}
}

// reconnect re-dials the broker until it succeeds or the consumer stops.
// It returns false when the consumer should stop instead of resuming.
func (c *Consumer) reconnect(ctx context.Context) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case <-c.shutdownSignal:
			return false
		case <-time.After(reconnectDelay):
		}

		c.mu.Lock()
		if c.channel != nil {
			_ = c.channel.Close()
		}
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.mu.Unlock()

		if err := c.connect(); err != nil {
			c.logWarn("broker reconnect failed", err, nil)
			continue
		}
		return true
	}
}

func (c *Consumer) logInfo(msg string, err error, fields ...map[string]interface{}) {
	if c.logger != nil {
		c.logger.Info(msg, err, fields...)
	}
}

func (c *Consumer) logWarn(msg string, err error, fields ...map[string]interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, err, fields...)
	}
}

func (c *Consumer) logError(msg string, err error, fields ...map[string]interface{}) {
	if c.logger != nil {
		c.logger.Error(msg, err, fields...)
	}
}

// Close shuts the consumer down and releases the broker connection.
func (c *Consumer) Close() error {
	c.shutdownOnce.Do(func() {
		close(c.shutdownSignal)
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.channel != nil {
		err = c.channel.Close()
	}
	if c.conn != nil {
		if cerr := c.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
