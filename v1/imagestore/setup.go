package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Logger is the minimal logging interface the store needs. A *logger.Logger
// satisfies it directly.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Store keeps image bytes in an S3-compatible object store. It wraps the
// MinIO client with connection monitoring and a buffer pool for downloads.
type Store struct {
	client *minio.Client
	cfg    *Config
	logger Logger

	mu             sync.RWMutex
	shutdownSignal chan struct{}
	shutdownOnce   sync.Once

	bufferPool sync.Pool
}

// NewStore connects to the object store, validates the connection and
// ensures the configured bucket exists.
func NewStore(cfg *Config, log Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("imagestore: connect to %s: %w", cfg.Endpoint, err)
	}

	s := &Store{
		client:         client,
		cfg:            cfg,
		logger:         log,
		shutdownSignal: make(chan struct{}),
		bufferPool: sync.Pool{
			New: func() interface{} { return new(bytes.Buffer) },
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectionValidate)
	defer cancel()

	if err := s.validateConnection(ctx); err != nil {
		return nil, fmt.Errorf("imagestore: validate connection: %w", err)
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func connect(cfg *Config) (*minio.Client, error) {
	return minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
}

// validateConnection checks connectivity by listing buckets, which needs
// minimal permissions.
func (s *Store) validateConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()

	_, err := client.ListBuckets(ctx)
	return err
}

// ensureBucket creates the configured bucket when missing.
func (s *Store) ensureBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("imagestore: check bucket %s: %w", s.cfg.Bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
		return fmt.Errorf("imagestore: create bucket %s: %w", s.cfg.Bucket, err)
	}

	if s.logger != nil {
		s.logger.Info("created image bucket", nil, map[string]interface{}{
			"bucket": s.cfg.Bucket,
			"region": s.cfg.Region,
		})
	}

	return nil
}

// monitorConnection periodically validates connectivity and reconnects when
// the health check fails. Runs until Close or context cancellation.
func (s *Store) monitorConnection(ctx context.Context) {
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
			err := s.validateConnection(checkCtx)
			cancel()

			if err == nil {
				continue
			}

			if s.logger != nil {
				s.logger.Warn("image store health check failed, reconnecting", err, map[string]interface{}{
					"endpoint": s.cfg.Endpoint,
				})
			}
			s.reconnect(ctx)

		case <-s.shutdownSignal:
			return
		case <-ctx.Done():
			return
		}
	}
}

// reconnect rebuilds the client until a connection validates, backing off
// one second between attempts.
func (s *Store) reconnect(ctx context.Context) {
	for {
		select {
		case <-s.shutdownSignal:
			return
		case <-ctx.Done():
			return
		default:
		}

		client, err := connect(s.cfg)
		if err == nil {
			s.mu.Lock()
			s.client = client
			s.mu.Unlock()

			checkCtx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
			err = s.validateConnection(checkCtx)
			cancel()

			if err == nil {
				if s.logger != nil {
					s.logger.Info("reconnected to image store", nil, map[string]interface{}{
						"endpoint": s.cfg.Endpoint,
					})
				}
				return
			}
		}

		if s.logger != nil {
			s.logger.Error("image store reconnection failed", err, map[string]interface{}{
				"endpoint": s.cfg.Endpoint,
			})
		}
		time.Sleep(time.Second)
	}
}

// Close stops the connection monitor. Safe to call more than once.
func (s *Store) Close() error {
	s.shutdownOnce.Do(func() { close(s.shutdownSignal) })
	return nil
}
