package imagestore

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the corresponding config field is zero.
const (
	DefaultBucket             = "images"
	DefaultPresignedExpiry    = 15 * time.Minute
	healthCheckInterval       = 3 * time.Second
	smallObjectThreshold      = 1 << 20 // 1 MiB, read directly without pooling
	defaultOperationTimeout   = 10 * time.Second
	defaultConnectionValidate = 30 * time.Second
)

// Config defines connection and behavior settings for the image store.
type Config struct {
	// Endpoint is the S3-compatible server address, e.g. "localhost:9000".
	Endpoint string `yaml:"endpoint" envconfig:"IMAGE_STORE_ENDPOINT"`

	// AccessKeyID and SecretAccessKey are the credentials.
	AccessKeyID     string `yaml:"access_key_id" envconfig:"IMAGE_STORE_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" envconfig:"IMAGE_STORE_SECRET_ACCESS_KEY"`

	// UseSSL selects https transport.
	UseSSL bool `yaml:"use_ssl" envconfig:"IMAGE_STORE_USE_SSL"`

	// Bucket is the bucket holding image objects. Created on startup when
	// missing.
	Bucket string `yaml:"bucket" envconfig:"IMAGE_STORE_BUCKET"`

	// Region is the bucket region for creation, e.g. "us-east-1".
	Region string `yaml:"region" envconfig:"IMAGE_STORE_REGION"`

	// PresignedExpiryMinutes controls how long presigned GET links stay
	// valid (default 15).
	PresignedExpiryMinutes int `yaml:"presigned_expiry_minutes" envconfig:"IMAGE_STORE_PRESIGNED_EXPIRY_MINUTES"`
}

// NewConfig reads the image store configuration from environment variables.
func NewConfig() *Config {
	expiry := 0
	if v := os.Getenv("IMAGE_STORE_PRESIGNED_EXPIRY_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			expiry = n
		}
	}

	bucket := os.Getenv("IMAGE_STORE_BUCKET")
	if bucket == "" {
		bucket = DefaultBucket
	}

	return &Config{
		Endpoint:               os.Getenv("IMAGE_STORE_ENDPOINT"),
		AccessKeyID:            os.Getenv("IMAGE_STORE_ACCESS_KEY_ID"),
		SecretAccessKey:        os.Getenv("IMAGE_STORE_SECRET_ACCESS_KEY"),
		UseSSL:                 os.Getenv("IMAGE_STORE_USE_SSL") == "true",
		Bucket:                 bucket,
		Region:                 os.Getenv("IMAGE_STORE_REGION"),
		PresignedExpiryMinutes: expiry,
	}
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("imagestore: missing IMAGE_STORE_ENDPOINT")
	}
	if c.Bucket == "" {
		return fmt.Errorf("imagestore: missing IMAGE_STORE_BUCKET")
	}
	return nil
}

// presignedExpiry returns the configured link lifetime, falling back to the
// default.
func (c *Config) presignedExpiry() time.Duration {
	if c.PresignedExpiryMinutes > 0 {
		return time.Duration(c.PresignedExpiryMinutes) * time.Minute
	}
	return DefaultPresignedExpiry
}
