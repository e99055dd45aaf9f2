package retrieval

import (
	"context"
	"time"

	"github.com/vantage-ml/multimodal/v1/catalog"
	"github.com/vantage-ml/multimodal/v1/dualencoder"
	"github.com/vantage-ml/multimodal/v1/events"
)

// Encoder produces embeddings and zero-shot rankings. *dualencoder.Client
// satisfies it.
type Encoder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedImages(ctx context.Context, images [][]byte) ([][]float32, error)
	Rank(ctx context.Context, image []byte, candidates []string) ([]dualencoder.Score, error)
}

// VectorCache caches embedding vectors by key. *embcache.Cache satisfies it.
// Get reports a miss with embcache.ErrMiss.
type VectorCache interface {
	Get(ctx context.Context, key string) ([]float32, error)
	Put(ctx context.Context, key string, vec []float32) error
}

// ObjectStore persists raw image bytes. *imagestore.Store satisfies it.
type ObjectStore interface {
	PutImage(ctx context.Context, key string, data []byte, contentType string) error
	GetImage(ctx context.Context, key string) ([]byte, error)
	RemoveImage(ctx context.Context, key string) error
}

// Recorder keeps the relational record of indexed images. *catalog.Catalog
// satisfies it.
type Recorder interface {
	Create(ctx context.Context, record *catalog.ImageRecord) error
	Get(ctx context.Context, id string) (*catalog.ImageRecord, error)
	Delete(ctx context.Context, id string) error
}

// EventSink publishes lifecycle events. *events.Publisher satisfies it.
type EventSink interface {
	Publish(ctx context.Context, event events.Event) error
}

// Observer records retrieval metrics. metrics.Collector satisfies it.
type Observer interface {
	ObserveInference(start time.Time, model, operation, status string)
	ObserveCacheLookup(outcome string)
	ObserveRetrievalResults(collection string, count int)
}

// Logger is the minimal logging interface the service needs.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// IndexRequest carries one image into the pipeline.
type IndexRequest struct {
	// Data is the raw image bytes in any decodable format.
	Data []byte

	// Caption optionally describes the image. When set it is stored in the
	// catalog and the vector payload.
	Caption string

	// Label optionally tags the image with a class name, enabling filtered
	// search.
	Label string
}

// IndexResult reports where an indexed image ended up.
type IndexResult struct {
	// ID is the UUID shared by the vector database and the catalog.
	ID string

	// ObjectKey locates the preprocessed bytes in the object store.
	ObjectKey string
}

// Hit is one search result with its catalog metadata.
type Hit struct {
	ID      string
	Score   float32
	Caption string
	Label   string

	// ObjectKey locates the image bytes for callers that want them.
	ObjectKey string
}

// Prediction is one zero-shot classification outcome.
type Prediction struct {
	// Label is the candidate class name as supplied by the caller.
	Label string

	// Probability is the softmax mass assigned to the label. Predictions
	// for one image sum to 1.
	Probability float64

	// Cosine is the raw image-text similarity before scaling.
	Cosine float64
}
