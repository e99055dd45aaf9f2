package imagestore

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testAccessKey = "minioadmin"
	testSecretKey = "minioadmin"
)

type minioContainer struct {
	testcontainers.Container
	Endpoint string
}

func setupMinioContainer(ctx context.Context) (*minioContainer, error) {
	req := testcontainers.ContainerRequest{
		Image: "minio/minio:RELEASE.2024-01-16T16-07-38Z",
		Env: map[string]string{
			"MINIO_ROOT_USER":     testAccessKey,
			"MINIO_ROOT_PASSWORD": testSecretKey,
		},
		Cmd:          []string{"server", "/data"},
		ExposedPorts: []string{"9000/tcp"},
		WaitingFor:   wait.ForListeningPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start minio container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	port, err := c.MappedPort(ctx, "9000")
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	return &minioContainer{
		Container: c,
		Endpoint:  fmt.Sprintf("%s:%s", host, port.Port()),
	}, nil
}

func TestImageStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	instance, err := setupMinioContainer(ctx)
	require.NoError(t, err)
	defer func() {
		if err := instance.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	store, err := NewStore(&Config{
		Endpoint:        instance.Endpoint,
		AccessKeyID:     testAccessKey,
		SecretAccessKey: testSecretKey,
		Bucket:          "images-test",
	}, nil)
	require.NoError(t, err)
	defer store.Close()

	// Minimal JPEG header so content sniffing returns image/jpeg.
	imageBytes := append([]byte{0xff, 0xd8, 0xff, 0xe0}, []byte("fake jpeg body")...)

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		require.NoError(t, store.PutImage(ctx, "cats/001.jpg", imageBytes, ""))

		got, err := store.GetImage(ctx, "cats/001.jpg")
		require.NoError(t, err)
		assert.Equal(t, imageBytes, got)

		info, err := store.StatImage(ctx, "cats/001.jpg")
		require.NoError(t, err)
		assert.Equal(t, int64(len(imageBytes)), info.Size)
		assert.Equal(t, "image/jpeg", info.ContentType)
	})

	t.Run("InputValidation", func(t *testing.T) {
		assert.Error(t, store.PutImage(ctx, "", imageBytes, ""))
		assert.Error(t, store.PutImage(ctx, "empty.jpg", nil, ""))
	})

	t.Run("PresignedGetURL", func(t *testing.T) {
		require.NoError(t, store.PutImage(ctx, "dogs/001.jpg", imageBytes, "image/jpeg"))

		link, err := store.PresignedGetURL(ctx, "dogs/001.jpg")
		require.NoError(t, err)

		resp, err := http.Get(link)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("RemoveImage", func(t *testing.T) {
		require.NoError(t, store.PutImage(ctx, "tmp/001.jpg", imageBytes, ""))
		require.NoError(t, store.RemoveImage(ctx, "tmp/001.jpg"))

		_, err := store.GetImage(ctx, "tmp/001.jpg")
		assert.Error(t, err)
	})

	t.Run("LargeObjectUsesBufferPool", func(t *testing.T) {
		large := make([]byte, smallObjectThreshold+1024)
		copy(large, []byte{0xff, 0xd8, 0xff, 0xe0})
		for i := 4; i < len(large); i++ {
			large[i] = byte(i % 251)
		}

		require.NoError(t, store.PutImage(ctx, "big/001.jpg", large, "image/jpeg"))

		got, err := store.GetImage(ctx, "big/001.jpg")
		require.NoError(t, err)
		assert.Equal(t, large, got)
	})
}
