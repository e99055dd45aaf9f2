package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when no vector is cached under the key.
var ErrMiss = errors.New("embcache: cache miss")

// Logger is the minimal logging interface the cache needs. It matches the
// signatures of the logger package so a *logger.Logger satisfies it directly.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Cache stores embedding vectors in Redis keyed by content digest.
//
// Embedding the same content with the same checkpoint always yields the same
// vector, so caching turns repeated inference calls into O(1) lookups. The
// cache is strictly an optimization: every read path must tolerate ErrMiss.
type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger Logger
}

// NewCache connects to Redis and returns a cache handle.
func NewCache(cfg *Config, log Logger) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Username:    cfg.Username,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: DefaultDialTimeout,
		ReadTimeout: DefaultReadTimeout,
	})

	return &Cache{
		client: client,
		ttl:    cfg.ttl(),
		logger: log,
	}, nil
}

// Key derives the cache key for a piece of content. The digest covers the
// modality, the model identifier and the raw content, so a text and an image
// with identical bytes, or the same image under two checkpoints, never collide.
func Key(modality, model string, content []byte) string {
	h := sha256.New()
	h.Write([]byte(modality))
	h.Write([]byte{0})
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write(content)
	return fmt.Sprintf("emb:%x", h.Sum(nil))
}

// Get returns the cached vector for the key, or ErrMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]float32, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("embcache: get %s: %w", key, err)
	}

	var vec []float32
	if err := json.Unmarshal(data, &vec); err != nil {
		// A corrupt entry behaves like a miss so callers recompute.
		if c.logger != nil {
			c.logger.Warn("discarding corrupt cache entry", err, map[string]interface{}{"key": key})
		}
		c.client.Del(ctx, key)
		return nil, ErrMiss
	}

	return vec, nil
}

// Put stores the vector under the key with the configured TTL.
func (c *Cache) Put(ctx context.Context, key string, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("embcache: refusing to cache an empty vector")
	}

	data, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("embcache: encode vector: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("embcache: set %s: %w", key, err)
	}

	return nil
}

// GetOrCompute returns the cached vector for the key, computing and caching
// it on a miss. Cache write failures are logged, not returned: the computed
// vector is still good.
func (c *Cache) GetOrCompute(ctx context.Context, key string, compute func(context.Context) ([]float32, error)) ([]float32, error) {
	vec, err := c.Get(ctx, key)
	if err == nil {
		return vec, nil
	}
	if !errors.Is(err, ErrMiss) {
		return nil, err
	}

	vec, err = compute(ctx)
	if err != nil {
		return nil, err
	}

	if putErr := c.Put(ctx, key, vec); putErr != nil && c.logger != nil {
		c.logger.Warn("failed to cache computed embedding", putErr, map[string]interface{}{"key": key})
	}

	return vec, nil
}

// Ping verifies the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("embcache: ping: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}
