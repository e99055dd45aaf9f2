package qdrant

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vantage-ml/multimodal/v1/vectordb"
)

type qdrantContainer struct {
	testcontainers.Container
	Host string
	Port int
}

func setupQdrantContainer(ctx context.Context) (*qdrantContainer, error) {
	port, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("could not get free port: %w", err)
	}

	portBindings := nat.PortMap{
		"6334/tcp": []nat.PortBinding{{HostPort: fmt.Sprintf("%d", port)}},
	}

	req := testcontainers.ContainerRequest{
		Image: "qdrant/qdrant:v1.11.0",
		Env: map[string]string{
			"QDRANT__SERVICE__GRPC_PORT": "6334",
		},
		ExposedPorts: []string{"6334/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForListeningPort("6334/tcp").WithStartupTimeout(60 * time.Second),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start qdrant container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	mappedPort, err := c.MappedPort(ctx, "6334")
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	// The gRPC listener can lag slightly behind the port binding.
	time.Sleep(2 * time.Second)

	return &qdrantContainer{Container: c, Host: host, Port: mappedPort.Int()}, nil
}

func getFreePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func randomVector(dim int) []float32 {
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = rand.Float32()
	}
	return vec
}

func TestQdrantIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	instance, err := setupQdrantContainer(ctx)
	require.NoError(t, err)
	defer func() {
		if err := instance.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	t.Logf("Using Qdrant on %s:%d", instance.Host, instance.Port)

	client, err := NewClient(&Config{
		Host:     instance.Host,
		Port:     instance.Port,
		TimeoutS: 10,
	}, nil)
	require.NoError(t, err)
	defer client.Close()

	const dim = 4

	t.Run("EnsureCollection", func(t *testing.T) {
		require.NoError(t, client.EnsureCollection(ctx, "images_test", dim))
		// Idempotent.
		require.NoError(t, client.EnsureCollection(ctx, "images_test", dim))

		assert.Error(t, client.EnsureCollection(ctx, "", dim))
		assert.Error(t, client.EnsureCollection(ctx, "images_bad", 0))

		names, err := client.ListCollections(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, "images_test")

		info, err := client.GetCollection(ctx, "images_test")
		require.NoError(t, err)
		assert.Equal(t, uint64(dim), info.VectorSize)
		assert.Equal(t, "Cosine", info.Distance)
	})

	t.Run("UpsertSearchDelete", func(t *testing.T) {
		const collection = "images_crud"
		require.NoError(t, client.EnsureCollection(ctx, collection, dim))

		catVec := []float32{1, 0, 0, 0}
		dogVec := []float32{0, 1, 0, 0}

		points := []vectordb.Point{
			{
				ID:      "00000000-0000-0000-0000-000000000001",
				Vector:  catVec,
				Payload: map[string]any{"caption": "a photo of a cat", "label": "cat"},
			},
			{
				ID:      "00000000-0000-0000-0000-000000000002",
				Vector:  dogVec,
				Payload: map[string]any{"caption": "a photo of a dog", "label": "dog"},
			},
		}
		require.NoError(t, client.Upsert(ctx, collection, points))

		results, err := client.Search(ctx, vectordb.SearchRequest{
			Collection: collection,
			Vector:     catVec,
			Limit:      2,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.NotEmpty(t, results[0])
		assert.Equal(t, "00000000-0000-0000-0000-000000000001", results[0][0].ID)
		assert.Greater(t, results[0][0].Score, float32(0.9))
		assert.Equal(t, "a photo of a cat", results[0][0].Payload["caption"])

		// Filtered search excludes the nearest neighbor.
		filtered, err := client.Search(ctx, vectordb.SearchRequest{
			Collection: collection,
			Vector:     catVec,
			Limit:      2,
			Filters: vectordb.NewFilter(
				vectordb.Must(vectordb.NewMatch("label", "dog")),
			),
		})
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		require.Len(t, filtered[0], 1)
		assert.Equal(t, "00000000-0000-0000-0000-000000000002", filtered[0][0].ID)

		require.NoError(t, client.Delete(ctx, collection, []string{"00000000-0000-0000-0000-000000000001"}))

		after, err := client.Search(ctx, vectordb.SearchRequest{
			Collection: collection,
			Vector:     catVec,
			Limit:      2,
		})
		require.NoError(t, err)
		for _, r := range after[0] {
			assert.NotEqual(t, "00000000-0000-0000-0000-000000000001", r.ID)
		}
	})

	t.Run("BatchedUpsert", func(t *testing.T) {
		const collection = "images_batch"
		require.NoError(t, client.EnsureCollection(ctx, collection, dim))

		// More points than one upsert chunk.
		points := make([]vectordb.Point, upsertBatchSize+10)
		for i := range points {
			points[i] = vectordb.Point{
				ID:      fmt.Sprintf("%d", i+1),
				Vector:  randomVector(dim),
				Payload: map[string]any{"index": i},
			}
		}
		require.NoError(t, client.Upsert(ctx, collection, points))

		info, err := client.GetCollection(ctx, collection)
		require.NoError(t, err)
		assert.Equal(t, uint64(len(points)), info.PointsCount)
	})
}
