package dualencoder

import (
	"context"
	"fmt"
	"os"
)

// Client is the public entrypoint for the pretrained dual encoder.
//
// It hides all provider details (inference endpoints, HTTP, wire formats)
// from the application layer. Application code should depend on *Client,
// not on Provider or inferenceProvider.
type Client struct {
	provider   Provider
	logitScale float64
}

// NewClient constructs a Client from Config.
// It validates the config and internally constructs the inference provider.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dualencoder: invalid config: %w", err)
	}

	p, err := newInferenceProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("dualencoder: failed to create provider: %w", err)
	}

	return &Client{provider: p, logitScale: cfg.logitScale()}, nil
}

// EmbedTexts embeds a batch of texts into the shared text/image space.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return c.provider.EmbedTexts(ctx, texts)
}

// EmbedImages embeds a batch of encoded images (JPEG/PNG bytes) into the
// shared text/image space.
func (c *Client) EmbedImages(ctx context.Context, images [][]byte) ([][]float32, error) {
	return c.provider.EmbedImages(ctx, images)
}

// EmbedImageFile loads one image from disk and embeds it.
func (c *Client) EmbedImageFile(ctx context.Context, path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dualencoder: read image %s: %w", path, err)
	}

	vecs, err := c.provider.EmbedImages(ctx, [][]byte{data})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// Close allows the client to release any internal resources used by the provider.
// Currently this is a no-op unless the provider implements Close().
func (c *Client) Close() error {
	if closer, ok := c.provider.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
