package vectordb

// SearchRequest describes a single similarity query.
type SearchRequest struct {
	// Collection is the target collection.
	Collection string

	// Vector is the query embedding.
	Vector []float32

	// Limit caps the number of results.
	Limit int

	// ScoreThreshold drops results scoring below it when positive.
	ScoreThreshold float32

	// WithVectors asks the adapter to return stored vectors with results.
	WithVectors bool

	// Filters restricts results by payload metadata. Nil means no filtering.
	Filters *Filter
}

// SearchResult is one matched point with its similarity score.
type SearchResult struct {
	// ID is the identifier of the matched point.
	ID string

	// Score follows the collection's distance metric. For cosine
	// collections, higher is more similar.
	Score float32

	// Payload is the metadata stored with the point.
	Payload map[string]any

	// Vector is the stored embedding, populated only when the request set
	// WithVectors.
	Vector []float32
}

// Point is a vector plus metadata for insertion.
type Point struct {
	// ID uniquely identifies the point. Adapters accept UUIDs and decimal
	// numeric strings.
	ID string

	// Vector is the embedding to index.
	Vector []float32

	// Payload is optional metadata stored alongside the vector.
	Payload map[string]any
}

// CollectionInfo reports collection metadata.
type CollectionInfo struct {
	Name        string
	Status      string
	VectorSize  uint64
	Distance    string
	PointsCount uint64
}
