package dualencoder

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultLogitScale is the similarity-to-logit multiplier used when none is
// configured. CLIP-family checkpoints train the scale to roughly
// exp(4.6052) ≈ 100, so cosine scores in [-1, 1] become logits in [-100, 100]
// before the softmax.
const DefaultLogitScale = 100.0

// Config holds the connection and model settings for the dual-encoder client.
//
// DUAL_ENCODER_ENDPOINT must point to the root of the OpenAI-compatible
// inference service (no /v1/embeddings appended); the provider appends paths
// itself, so callers only supply the host base URL.
type Config struct {
	// Endpoint is the base URL of the inference service hosting the
	// pretrained dual encoder.
	Endpoint string `yaml:"endpoint" envconfig:"DUAL_ENCODER_ENDPOINT"`

	// ServiceToken is the bearer token for the inference service.
	// Leave empty for unauthenticated local servers.
	ServiceToken string `yaml:"service_token" envconfig:"DUAL_ENCODER_SERVICE_TOKEN"`

	// Model is the identifier of the pretrained checkpoint to run,
	// e.g. "clip-vit-base-patch32". The endpoint resolves it to weights;
	// this library never loads weights itself.
	Model string `yaml:"model" envconfig:"DUAL_ENCODER_MODEL"`

	// LogitScale multiplies cosine similarities before the softmax in Rank.
	// Zero means DefaultLogitScale.
	LogitScale float64 `yaml:"logit_scale" envconfig:"DUAL_ENCODER_LOGIT_SCALE"`

	// HTTPTimeoutS is the HTTP request timeout in seconds (default 30).
	HTTPTimeoutS int `yaml:"http_timeout_seconds" envconfig:"DUAL_ENCODER_HTTP_TIMEOUT_SECONDS"`
}

// NewConfig reads the dual-encoder configuration from environment variables.
func NewConfig() *Config {
	timeout := 30
	if v := os.Getenv("DUAL_ENCODER_HTTP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = n
		}
	}

	scale := 0.0
	if v := os.Getenv("DUAL_ENCODER_LOGIT_SCALE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			scale = f
		}
	}

	return &Config{
		Endpoint:     os.Getenv("DUAL_ENCODER_ENDPOINT"),
		ServiceToken: os.Getenv("DUAL_ENCODER_SERVICE_TOKEN"),
		Model:        os.Getenv("DUAL_ENCODER_MODEL"),
		LogitScale:   scale,
		HTTPTimeoutS: timeout,
	}
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("dualencoder: missing DUAL_ENCODER_ENDPOINT")
	}
	if c.Model == "" {
		return fmt.Errorf("dualencoder: missing DUAL_ENCODER_MODEL")
	}
	if c.LogitScale < 0 {
		return fmt.Errorf("dualencoder: logit scale must not be negative")
	}
	return nil
}

// logitScale returns the configured scale, falling back to the default.
func (c *Config) logitScale() float64 {
	if c.LogitScale > 0 {
		return c.LogitScale
	}
	return DefaultLogitScale
}
