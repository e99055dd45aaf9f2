package qdrant

import (
	"context"
	"errors"
	"fmt"
	"slices"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/vantage-ml/multimodal/v1/vectordb"
)

// upsertBatchSize is the chunk size for batched point writes.
const upsertBatchSize = 200

// Search runs one similarity query per request against Qdrant. Results come
// back in request order; per-request failures are joined into the returned
// error while successful slots keep their results.
func (c *Client) Search(ctx context.Context, requests ...vectordb.SearchRequest) ([][]vectordb.SearchResult, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("qdrant: at least one search request is required")
	}

	results := make([][]vectordb.SearchResult, len(requests))
	var errs []error

	for i, req := range requests {
		res, err := c.searchOne(ctx, req)
		if err != nil {
			errs = append(errs, fmt.Errorf("qdrant: request %d: %w", i, err))
			continue
		}
		results[i] = res
	}

	return results, errors.Join(errs...)
}

func (c *Client) searchOne(ctx context.Context, req vectordb.SearchRequest) ([]vectordb.SearchResult, error) {
	if err := validateSearchRequest(req); err != nil {
		return nil, err
	}

	limit := uint64(req.Limit)
	query := &qdrant.QueryPoints{
		CollectionName: req.Collection,
		Query:          qdrant.NewQuery(req.Vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         convertFilter(req.Filters),
	}
	if req.WithVectors {
		query.WithVectors = qdrant.NewWithVectors(true)
	}
	if req.ScoreThreshold > 0 {
		threshold := req.ScoreThreshold
		query.ScoreThreshold = &threshold
	}

	resp, err := c.api.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", req.Collection, err)
	}

	results, err := parseScoredPoints(resp)
	if err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.Debug("similarity search completed", nil, map[string]interface{}{
			"collection": req.Collection,
			"results":    len(results),
		})
	}

	return results, nil
}

// Upsert writes points into a collection in chunks of upsertBatchSize,
// waiting for each chunk to persist before sending the next.
func (c *Client) Upsert(ctx context.Context, collection string, points []vectordb.Point) error {
	if collection == "" {
		return fmt.Errorf("qdrant: collection name cannot be empty")
	}
	if len(points) == 0 {
		return nil
	}

	for start := 0; start < len(points); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(points))

		batch, err := convertPoints(points[start:end])
		if err != nil {
			return fmt.Errorf("qdrant: batch [%d:%d]: %w", start, end, err)
		}

		wait := true
		_, err = c.api.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collection,
			Points:         batch,
			Wait:           &wait,
		})
		if err != nil {
			return fmt.Errorf("qdrant: upsert [%d:%d] into %s: %w", start, end, collection, err)
		}
	}

	return nil
}

// Delete removes points by ID, waiting for the deletion to persist.
func (c *Client) Delete(ctx context.Context, collection string, ids []string) error {
	if collection == "" {
		return fmt.Errorf("qdrant: collection name cannot be empty")
	}
	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		pointIDs = append(pointIDs, qdrant.NewID(id))
	}

	wait := true
	_, err := c.api.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: pointIDs},
			},
		},
		Wait: &wait,
	})
	if err != nil {
		return fmt.Errorf("qdrant: delete from %s: %w", collection, err)
	}

	return nil
}

// EnsureCollection creates a cosine-distance collection if it does not
// exist. Safe to call repeatedly.
func (c *Client) EnsureCollection(ctx context.Context, name string, vectorSize uint64) error {
	if name == "" {
		return fmt.Errorf("qdrant: collection name cannot be empty")
	}
	if vectorSize == 0 {
		return fmt.Errorf("qdrant: vector size cannot be zero")
	}

	existing, err := c.api.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("qdrant: list collections: %w", err)
	}

	if slices.Contains(existing, name) {
		return nil
	}

	err = c.api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: create collection %s: %w", name, err)
	}

	if c.logger != nil {
		c.logger.Info("created collection", nil, map[string]interface{}{
			"collection":  name,
			"vector_size": vectorSize,
		})
	}

	return nil
}

// GetCollection reports collection metadata, hiding the SDK's nested
// protobuf structures from callers.
func (c *Client) GetCollection(ctx context.Context, name string) (*vectordb.CollectionInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("qdrant: collection name cannot be empty")
	}

	info, err := c.api.GetCollectionInfo(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("qdrant: get collection %s: %w", name, err)
	}

	size, distance := extractVectorParams(info)

	return &vectordb.CollectionInfo{
		Name:        name,
		Status:      info.Status.String(),
		VectorSize:  size,
		Distance:    distance,
		PointsCount: derefUint64(info.PointsCount),
	}, nil
}

// ListCollections returns the names of all collections.
func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	names, err := c.api.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("qdrant: list collections: %w", err)
	}
	return names, nil
}

func validateSearchRequest(req vectordb.SearchRequest) error {
	if req.Collection == "" {
		return fmt.Errorf("collection name cannot be empty")
	}
	if len(req.Vector) == 0 {
		return fmt.Errorf("query vector cannot be empty")
	}
	if req.Limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}
	return nil
}
