package qdrant

import (
	"context"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"
)

// Logger is the minimal logging interface the adapter needs. A
// *logger.Logger satisfies it directly.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
}

// Client wraps the official Qdrant Go client and implements
// vectordb.Service for embedding storage and similarity search.
type Client struct {
	api    *qdrant.Client
	cfg    *Config
	logger Logger
}

// NewClient connects to Qdrant and verifies the connection with a health
// check, failing fast when the service is unreachable.
func NewClient(cfg *Config, log Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	api, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.Host,
		Port:                   cfg.Port,
		APIKey:                 cfg.APIKey,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: initialize client: %w", err)
	}

	c := &Client{api: api, cfg: cfg, logger: log}

	if err := c.healthCheck(); err != nil {
		return nil, err
	}

	return c, nil
}

// healthCheck verifies Qdrant availability. It is lightweight enough for
// startup and readiness probes.
func (c *Client) healthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.timeout())
	defer cancel()

	resp, err := c.api.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("qdrant: health check: %w", err)
	}

	if c.logger != nil {
		c.logger.Info("qdrant connection established", nil, map[string]interface{}{
			"host":    c.cfg.Host,
			"port":    c.cfg.Port,
			"version": resp.Version,
		})
	}

	return nil
}

// API exposes the underlying SDK client for operations the adapter does not
// cover.
func (c *Client) API() *qdrant.Client {
	return c.api
}

// Close shuts down the underlying gRPC connection.
func (c *Client) Close() error {
	return c.api.Close()
}
