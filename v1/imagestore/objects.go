package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/minio/minio-go/v7"
)

// ImageInfo describes a stored image object.
type ImageInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// PutImage stores raw image bytes under the key. When contentType is empty
// it is sniffed from the data.
func (s *Store) PutImage(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return fmt.Errorf("imagestore: object key cannot be empty")
	}
	if len(data) == 0 {
		return fmt.Errorf("imagestore: refusing to store empty object %s", key)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()

	_, err := client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("imagestore: put %s: %w", key, err)
	}

	return nil
}

// GetImage fetches the full object. Small objects are read into an exact
// allocation; larger ones go through the buffer pool to limit garbage.
func (s *Store) GetImage(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()

	obj, err := client.GetObject(ctx, s.cfg.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("imagestore: get %s: %w", key, err)
	}
	defer obj.Close()

	stat, err := obj.Stat()
	if err != nil {
		return nil, fmt.Errorf("imagestore: stat %s: %w", key, err)
	}

	if stat.Size < smallObjectThreshold {
		data := make([]byte, stat.Size)
		if _, err := io.ReadFull(obj, data); err != nil {
			return nil, fmt.Errorf("imagestore: read %s: %w", key, err)
		}
		return data, nil
	}

	buf := s.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer s.bufferPool.Put(buf)

	if _, err := io.Copy(buf, obj); err != nil {
		return nil, fmt.Errorf("imagestore: read %s: %w", key, err)
	}

	// Copy out so the pooled buffer can be reused safely.
	data := make([]byte, buf.Len())
	copy(data, buf.Bytes())
	return data, nil
}

// StatImage returns object metadata without fetching the body.
func (s *Store) StatImage(ctx context.Context, key string) (*ImageInfo, error) {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()

	stat, err := client.StatObject(ctx, s.cfg.Bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("imagestore: stat %s: %w", key, err)
	}

	return &ImageInfo{
		Key:         key,
		Size:        stat.Size,
		ContentType: stat.ContentType,
	}, nil
}

// RemoveImage deletes the object.
func (s *Store) RemoveImage(ctx context.Context, key string) error {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()

	if err := client.RemoveObject(ctx, s.cfg.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("imagestore: remove %s: %w", key, err)
	}
	return nil
}

// PresignedGetURL returns a time-limited download link so callers can serve
// images without proxying the bytes.
func (s *Store) PresignedGetURL(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()

	u, err := client.PresignedGetObject(ctx, s.cfg.Bucket, key, s.cfg.presignedExpiry(), url.Values{})
	if err != nil {
		return "", fmt.Errorf("imagestore: presign %s: %w", key, err)
	}
	return u.String(), nil
}
