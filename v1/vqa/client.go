package vqa

import (
	"context"
	"fmt"
	"os"
)

// Asker answers a free-form question about an image.
type Asker interface {
	Ask(ctx context.Context, image []byte, question string) (string, error)
}

// Client answers natural-language questions about images using a pretrained
// vision-language model behind an inference endpoint.
type Client struct {
	provider Asker
}

// NewClient creates a VQA client from the given configuration.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider, err := newInferenceProvider(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{provider: provider}, nil
}

// Answer asks the model the given question about the image and returns the
// cleaned answer text.
func (c *Client) Answer(ctx context.Context, image []byte, question string) (string, error) {
	raw, err := c.provider.Ask(ctx, image, question)
	if err != nil {
		return "", fmt.Errorf("vqa: %w", err)
	}

	answer := cleanAnswer(raw, question)
	if answer == "" {
		return "", fmt.Errorf("vqa: model returned an empty answer")
	}

	return answer, nil
}

// AnswerFile reads an image from disk and answers the question about it.
func (c *Client) AnswerFile(ctx context.Context, path, question string) (string, error) {
	img, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("vqa: read image %s: %w", path, err)
	}
	return c.Answer(ctx, img, question)
}

// Close releases client resources. Currently a no-op kept for lifecycle symmetry.
func (c *Client) Close() error {
	return nil
}
