package vqa

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the connection and generation settings for the VQA client.
type Config struct {
	// Endpoint is the base URL of the inference service hosting the
	// pretrained vision-language model.
	Endpoint string `yaml:"endpoint" envconfig:"VQA_ENDPOINT"`

	// ServiceToken is the bearer token for the inference service.
	// Leave empty for unauthenticated local servers.
	ServiceToken string `yaml:"service_token" envconfig:"VQA_SERVICE_TOKEN"`

	// Model is the identifier of the pretrained checkpoint to query,
	// e.g. "blip-vqa-base" or "llava-1.5-7b".
	Model string `yaml:"model" envconfig:"VQA_MODEL"`

	// MaxTokens caps the generated answer length (default 64). VQA answers
	// are typically a word or short phrase, so the cap stays small.
	MaxTokens int `yaml:"max_tokens" envconfig:"VQA_MAX_TOKENS"`

	// Temperature controls sampling randomness. Low values keep answers
	// deterministic, which is what question answering wants.
	Temperature float64 `yaml:"temperature" envconfig:"VQA_TEMPERATURE"`

	// HTTPTimeoutS is the HTTP request timeout in seconds (default 60,
	// generation is slower than embedding).
	HTTPTimeoutS int `yaml:"http_timeout_seconds" envconfig:"VQA_HTTP_TIMEOUT_SECONDS"`
}

// NewConfig reads the VQA configuration from environment variables.
func NewConfig() *Config {
	maxTokens := 64
	if v := os.Getenv("VQA_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxTokens = n
		}
	}

	temperature := 0.1
	if v := os.Getenv("VQA_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			temperature = f
		}
	}

	timeout := 60
	if v := os.Getenv("VQA_HTTP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = n
		}
	}

	return &Config{
		Endpoint:     os.Getenv("VQA_ENDPOINT"),
		ServiceToken: os.Getenv("VQA_SERVICE_TOKEN"),
		Model:        os.Getenv("VQA_MODEL"),
		MaxTokens:    maxTokens,
		Temperature:  temperature,
		HTTPTimeoutS: timeout,
	}
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("vqa: missing VQA_ENDPOINT")
	}
	if c.Model == "" {
		return fmt.Errorf("vqa: missing VQA_MODEL")
	}
	if c.Temperature < 0 {
		return fmt.Errorf("vqa: temperature must not be negative")
	}
	return nil
}
