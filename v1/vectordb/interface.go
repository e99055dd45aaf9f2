package vectordb

import "context"

// Service is the common interface vector database adapters implement.
type Service interface {
	// Search runs one or more similarity queries. It returns one result
	// slice per request, in request order. Per-request failures are joined
	// into the returned error; successful slots keep their results.
	Search(ctx context.Context, requests ...SearchRequest) ([][]SearchResult, error)

	// Upsert writes points into a collection, inserting or overwriting by ID.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Delete removes points by ID from a collection.
	Delete(ctx context.Context, collection string, ids []string) error

	// EnsureCollection creates a cosine-distance collection if it does not
	// exist. Safe to call repeatedly.
	EnsureCollection(ctx context.Context, name string, vectorSize uint64) error

	// GetCollection reports metadata about a collection.
	GetCollection(ctx context.Context, name string) (*CollectionInfo, error)

	// ListCollections returns the names of all collections.
	ListCollections(ctx context.Context) ([]string, error)
}
