package qdrant

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied by NewClient when the corresponding field is zero.
const (
	DefaultHost    = "localhost"
	DefaultPort    = 6334
	DefaultTimeout = 5 * time.Second
)

// Config holds connection settings for the Qdrant adapter.
type Config struct {
	// Host is the Qdrant server hostname, e.g. "localhost".
	Host string `yaml:"host" envconfig:"QDRANT_HOST"`

	// Port is the gRPC port of the Qdrant server. Defaults to 6334.
	Port int `yaml:"port" envconfig:"QDRANT_PORT"`

	// APIKey is an optional authentication token for secured deployments.
	APIKey string `yaml:"api_key" envconfig:"QDRANT_API_KEY"`

	// TimeoutS is the per-request timeout in seconds (default 5).
	TimeoutS int `yaml:"timeout_seconds" envconfig:"QDRANT_TIMEOUT_SECONDS"`

	// CheckCompatibility enables the client/server version check on connect.
	CheckCompatibility bool `yaml:"check_compatibility" envconfig:"QDRANT_CHECK_COMPATIBILITY"`
}

// NewConfig reads the Qdrant configuration from environment variables.
func NewConfig() *Config {
	port := DefaultPort
	if v := os.Getenv("QDRANT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			port = n
		}
	}

	timeout := 0
	if v := os.Getenv("QDRANT_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = n
		}
	}

	host := os.Getenv("QDRANT_HOST")
	if host == "" {
		host = DefaultHost
	}

	return &Config{
		Host:               host,
		Port:               port,
		APIKey:             os.Getenv("QDRANT_API_KEY"),
		TimeoutS:           timeout,
		CheckCompatibility: os.Getenv("QDRANT_CHECK_COMPATIBILITY") == "true",
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("qdrant: missing QDRANT_HOST")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("qdrant: invalid port %d", c.Port)
	}
	return nil
}

// timeout returns the configured request timeout, falling back to the default.
func (c *Config) timeout() time.Duration {
	if c.TimeoutS > 0 {
		return time.Duration(c.TimeoutS) * time.Second
	}
	return DefaultTimeout
}
