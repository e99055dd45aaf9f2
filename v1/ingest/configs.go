package ingest

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults applied when the corresponding config field is zero.
const (
	DefaultExchange   = "multimodal"
	DefaultQueue      = "multimodal.index"
	DefaultRoutingKey = "image.index"
	DefaultDLXSuffix  = ".dlx"
	DefaultPrefetch   = 8
	DefaultWorkers    = 2
)

// Config holds the RabbitMQ connection and topology settings for the ingest
// consumer.
type Config struct {
	// Host is the RabbitMQ server hostname.
	Host string `yaml:"host" envconfig:"INGEST_HOST"`

	// Port is the AMQP port (typically 5672).
	Port uint `yaml:"port" envconfig:"INGEST_PORT"`

	// User and Password authenticate against the broker.
	User     string `yaml:"user" envconfig:"INGEST_USER"`
	Password string `yaml:"password" envconfig:"INGEST_PASSWORD"`

	// Exchange is the direct exchange index jobs are published to.
	Exchange string `yaml:"exchange" envconfig:"INGEST_EXCHANGE"`

	// RoutingKey binds the job queue to the exchange.
	RoutingKey string `yaml:"routing_key" envconfig:"INGEST_ROUTING_KEY"`

	// Queue is the durable queue the consumer reads from.
	Queue string `yaml:"queue" envconfig:"INGEST_QUEUE"`

	// PrefetchCount limits unacknowledged deliveries per consumer.
	PrefetchCount int `yaml:"prefetch_count" envconfig:"INGEST_PREFETCH_COUNT"`

	// Workers is the number of goroutines processing jobs concurrently.
	Workers int `yaml:"workers" envconfig:"INGEST_WORKERS"`
}

// NewConfig reads the ingest configuration from environment variables.
func NewConfig() *Config {
	port := uint(5672)
	if v := os.Getenv("INGEST_PORT"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 16); err == nil && n > 0 {
			port = uint(n)
		}
	}

	prefetch := 0
	if v := os.Getenv("INGEST_PREFETCH_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			prefetch = n
		}
	}

	workers := 0
	if v := os.Getenv("INGEST_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			workers = n
		}
	}

	return &Config{
		Host:          os.Getenv("INGEST_HOST"),
		Port:          port,
		User:          os.Getenv("INGEST_USER"),
		Password:      os.Getenv("INGEST_PASSWORD"),
		Exchange:      os.Getenv("INGEST_EXCHANGE"),
		RoutingKey:    os.Getenv("INGEST_ROUTING_KEY"),
		Queue:         os.Getenv("INGEST_QUEUE"),
		PrefetchCount: prefetch,
		Workers:       workers,
	}
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("ingest: missing INGEST_HOST")
	}
	if c.Port == 0 {
		return fmt.Errorf("ingest: missing INGEST_PORT")
	}
	return nil
}

// withDefaults returns a copy with zero topology fields replaced by defaults.
func (c *Config) withDefaults() Config {
	out := *c
	if out.Exchange == "" {
		out.Exchange = DefaultExchange
	}
	if out.Queue == "" {
		out.Queue = DefaultQueue
	}
	if out.RoutingKey == "" {
		out.RoutingKey = DefaultRoutingKey
	}
	if out.PrefetchCount == 0 {
		out.PrefetchCount = DefaultPrefetch
	}
	if out.Workers == 0 {
		out.Workers = DefaultWorkers
	}
	return out
}

// url builds the AMQP connection string.
func (c *Config) url() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d", c.User, c.Password, c.Host, c.Port)
}

// dlxExchange and dlxQueue name the dead-letter topology derived from the
// main names.
func (c *Config) dlxExchange() string { return c.Exchange + DefaultDLXSuffix }
func (c *Config) dlxQueue() string    { return c.Queue + DefaultDLXSuffix }
