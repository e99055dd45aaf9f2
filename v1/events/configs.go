package events

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Defaults applied by NewPublisher when the corresponding field is zero.
const (
	DefaultTopic        = "multimodal.events"
	DefaultBatchTimeout = 100 * time.Millisecond
	DefaultWriteTimeout = 10 * time.Second
)

// Config holds connection settings for the event publisher.
type Config struct {
	// Brokers is the list of Kafka bootstrap addresses.
	Brokers []string `yaml:"brokers" envconfig:"EVENTS_BROKERS"`

	// Topic is the topic all lifecycle events are published to.
	Topic string `yaml:"topic" envconfig:"EVENTS_TOPIC"`

	// Async publishes without waiting for broker acknowledgment. Events are
	// advisory, so losing some on crash is acceptable when throughput
	// matters more.
	Async bool `yaml:"async" envconfig:"EVENTS_ASYNC"`
}

// NewConfig reads the events configuration from environment variables.
// EVENTS_BROKERS is a comma-separated list.
func NewConfig() *Config {
	var brokers []string
	if v := os.Getenv("EVENTS_BROKERS"); v != "" {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	topic := os.Getenv("EVENTS_TOPIC")
	if topic == "" {
		topic = DefaultTopic
	}

	return &Config{
		Brokers: brokers,
		Topic:   topic,
		Async:   os.Getenv("EVENTS_ASYNC") == "true",
	}
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("events: missing EVENTS_BROKERS")
	}
	if c.Topic == "" {
		return fmt.Errorf("events: missing EVENTS_TOPIC")
	}
	return nil
}
