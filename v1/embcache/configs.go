package embcache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied by NewCache when the corresponding config field is zero.
const (
	DefaultHost        = "localhost"
	DefaultPort        = 6379
	DefaultTTL         = 24 * time.Hour
	DefaultDialTimeout = 5 * time.Second
	DefaultReadTimeout = 3 * time.Second
)

// Config defines the connection and retention settings for the embedding cache.
type Config struct {
	// Host is the Redis server hostname or IP address.
	Host string `yaml:"host" envconfig:"EMBEDDING_CACHE_HOST"`

	// Port is the Redis server port.
	Port int `yaml:"port" envconfig:"EMBEDDING_CACHE_PORT"`

	// Username is the Redis username for ACL authentication.
	// Leave empty for no username-based authentication.
	Username string `yaml:"username" envconfig:"EMBEDDING_CACHE_USERNAME"`

	// Password is the Redis password for authentication.
	Password string `yaml:"password" envconfig:"EMBEDDING_CACHE_PASSWORD"`

	// DB is the Redis database number to use.
	DB int `yaml:"db" envconfig:"EMBEDDING_CACHE_DB"`

	// TTLHours is the cached-vector lifetime in hours (default 24).
	// Embeddings for the same content and checkpoint never change, so the
	// TTL only bounds memory, not staleness.
	TTLHours int `yaml:"ttl_hours" envconfig:"EMBEDDING_CACHE_TTL_HOURS"`
}

// NewConfig reads the embedding cache configuration from environment variables.
func NewConfig() *Config {
	port := DefaultPort
	if v := os.Getenv("EMBEDDING_CACHE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			port = n
		}
	}

	db := 0
	if v := os.Getenv("EMBEDDING_CACHE_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			db = n
		}
	}

	ttlHours := 0
	if v := os.Getenv("EMBEDDING_CACHE_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttlHours = n
		}
	}

	return &Config{
		Host:     getEnvOrDefault("EMBEDDING_CACHE_HOST", DefaultHost),
		Port:     port,
		Username: os.Getenv("EMBEDDING_CACHE_USERNAME"),
		Password: os.Getenv("EMBEDDING_CACHE_PASSWORD"),
		DB:       db,
		TTLHours: ttlHours,
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("embcache: missing EMBEDDING_CACHE_HOST")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("embcache: invalid port %d", c.Port)
	}
	if c.TTLHours < 0 {
		return fmt.Errorf("embcache: TTL must not be negative")
	}
	return nil
}

// ttl returns the configured retention, falling back to the default.
func (c *Config) ttl() time.Duration {
	if c.TTLHours > 0 {
		return time.Duration(c.TTLHours) * time.Hour
	}
	return DefaultTTL
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
