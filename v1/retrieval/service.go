package retrieval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vantage-ml/multimodal/v1/catalog"
	"github.com/vantage-ml/multimodal/v1/embcache"
	"github.com/vantage-ml/multimodal/v1/events"
	"github.com/vantage-ml/multimodal/v1/imageproc"
	"github.com/vantage-ml/multimodal/v1/vectordb"
)

// indexConcurrency bounds the number of images processed in parallel by
// IndexBatch. Embedding requests dominate the latency, so this is really a
// cap on in-flight inference calls.
const indexConcurrency = 4

// ErrBadImage marks payloads that are not decodable images. The failure is
// permanent: retrying the same bytes can never succeed, so queue consumers
// should dead-letter the job instead of requeueing it.
var ErrBadImage = errors.New("retrieval: image is not decodable")

// Service ties the encoder, vector database, object store, catalog and event
// stream into the image retrieval pipeline. All operations are safe for
// concurrent use.
type Service struct {
	cfg     Config
	model   string
	encoder Encoder
	db      vectordb.Service
	cache   VectorCache
	store   ObjectStore
	records Recorder
	sink    EventSink
	obs     Observer
	logger  Logger
}

// NewService constructs the retrieval service. The model identifier
// namespaces cache keys so that switching checkpoints never serves stale
// vectors. Cache, object store, catalog, event sink and observer may be nil;
// the corresponding steps are skipped.
func NewService(
	cfg *Config,
	model string,
	encoder Encoder,
	db vectordb.Service,
	cache VectorCache,
	store ObjectStore,
	records Recorder,
	sink EventSink,
	obs Observer,
	log Logger,
) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("retrieval: invalid config: %w", err)
	}
	if encoder == nil {
		return nil, fmt.Errorf("retrieval: encoder is required")
	}
	if db == nil {
		return nil, fmt.Errorf("retrieval: vector database is required")
	}

	return &Service{
		cfg:     cfg.withDefaults(),
		model:   model,
		encoder: encoder,
		db:      db,
		cache:   cache,
		store:   store,
		records: records,
		sink:    sink,
		obs:     obs,
		logger:  log,
	}, nil
}

// EnsureCollection creates the configured collection if it does not exist.
// Called once on startup.
func (s *Service) EnsureCollection(ctx context.Context) error {
	return s.db.EnsureCollection(ctx, s.cfg.Collection, s.cfg.VectorSize)
}

// IndexImage runs one image through the full pipeline: normalize the bytes
// for the model, embed them, persist the original to the object store,
// record metadata in the catalog and upsert the vector. Bytes that do not
// decode as an image fail with ErrBadImage.
func (s *Service) IndexImage(ctx context.Context, req IndexRequest) (*IndexResult, error) {
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("retrieval: image data must not be empty")
	}

	info, err := imageproc.Inspect(req.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadImage, err)
	}

	prepared, err := imageproc.PrepareForModel(req.Data, imageproc.DefaultModelSide)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadImage, err)
	}

	vec, err := s.embedImage(ctx, prepared)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	objectKey := fmt.Sprintf("%s/%s.jpg", s.cfg.Collection, id)

	if s.store != nil {
		if err := s.store.PutImage(ctx, objectKey, prepared, "image/jpeg"); err != nil {
			return nil, fmt.Errorf("retrieval: store image: %w", err)
		}
	}

	if s.records != nil {
		record := &catalog.ImageRecord{
			ID:        id,
			ObjectKey: objectKey,
			Caption:   req.Caption,
			Label:     req.Label,
			Width:     info.Width,
			Height:    info.Height,
			Format:    info.Format,
		}
		if err := s.records.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("retrieval: record image: %w", err)
		}
	}

	payload := map[string]any{
		"object_key": objectKey,
		"caption":    req.Caption,
		"label":      req.Label,
	}
	point := vectordb.Point{ID: id, Vector: vec, Payload: payload}
	if err := s.db.Upsert(ctx, s.cfg.Collection, []vectordb.Point{point}); err != nil {
		return nil, fmt.Errorf("retrieval: upsert vector: %w", err)
	}

	s.publish(ctx, events.Event{
		Type:    events.TypeImageIndexed,
		Subject: id,
		Model:   s.model,
		Fields: map[string]any{
			"object_key": objectKey,
			"label":      req.Label,
		},
	})

	return &IndexResult{ID: id, ObjectKey: objectKey}, nil
}

// IndexBatch indexes a set of images concurrently. It fails fast: the first
// error cancels the remaining work and is returned. Results keep the input
// order.
func (s *Service) IndexBatch(ctx context.Context, reqs []IndexRequest) ([]*IndexResult, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("retrieval: batch must not be empty")
	}

	results := make([]*IndexResult, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(indexConcurrency)

	for i, req := range reqs {
		g.Go(func() error {
			res, err := s.IndexImage(gctx, req)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("retrieval: %w", err)
	}
	return results, nil
}

// SearchByText embeds the query and returns the closest indexed images.
// A non-positive limit falls back to the configured top-k. label optionally
// restricts results to one class.
func (s *Service) SearchByText(ctx context.Context, query string, limit int, label string) ([]Hit, error) {
	if query == "" {
		return nil, fmt.Errorf("retrieval: query must not be empty")
	}

	vec, err := s.embedText(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.search(ctx, vec, limit, label)
}

// SearchByImage embeds the given image and returns the closest indexed
// images. Useful for reverse image search and near-duplicate detection.
func (s *Service) SearchByImage(ctx context.Context, data []byte, limit int, label string) ([]Hit, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("retrieval: image data must not be empty")
	}

	prepared, err := imageproc.PrepareForModel(data, imageproc.DefaultModelSide)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadImage, err)
	}

	vec, err := s.embedImage(ctx, prepared)
	if err != nil {
		return nil, err
	}
	return s.search(ctx, vec, limit, label)
}

// Classify performs zero-shot classification of the image over the candidate
// labels. Labels are wrapped in the configured prompt template before
// embedding; predictions come back sorted by probability, descending.
func (s *Service) Classify(ctx context.Context, data []byte, labels []string) ([]Prediction, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("retrieval: image data must not be empty")
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("retrieval: labels must not be empty")
	}

	prepared, err := imageproc.PrepareForModel(data, imageproc.DefaultModelSide)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadImage, err)
	}

	prompts := make([]string, len(labels))
	for i, l := range labels {
		prompts[i] = fmt.Sprintf(s.cfg.PromptTemplate, l)
	}

	start := time.Now()
	scores, err := s.encoder.Rank(ctx, prepared, prompts)
	if err != nil {
		s.observeInference(start, "rank", "error")
		return nil, fmt.Errorf("retrieval: rank labels: %w", err)
	}
	s.observeInference(start, "rank", "success")

	// Rank returns scores sorted by probability; map prompts back to the
	// caller's bare labels.
	promptToLabel := make(map[string]string, len(labels))
	for i, p := range prompts {
		promptToLabel[p] = labels[i]
	}

	preds := make([]Prediction, len(scores))
	for i, sc := range scores {
		preds[i] = Prediction{
			Label:       promptToLabel[sc.Text],
			Probability: sc.Probability,
			Cosine:      sc.Cosine,
		}
	}
	return preds, nil
}

// DeleteImage removes an image from the vector database, the catalog and the
// object store, then publishes a deletion event. Missing catalog or store
// entries are logged and skipped so a partially indexed image can still be
// cleaned up.
func (s *Service) DeleteImage(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("retrieval: id must not be empty")
	}

	var objectKey string
	if s.records != nil {
		record, err := s.records.Get(ctx, id)
		switch {
		case err == nil:
			objectKey = record.ObjectKey
		case errors.Is(err, catalog.ErrNotFound):
			s.warn("catalog record already gone", nil, map[string]interface{}{"id": id})
		default:
			return fmt.Errorf("retrieval: load record: %w", err)
		}
	}

	if err := s.db.Delete(ctx, s.cfg.Collection, []string{id}); err != nil {
		return fmt.Errorf("retrieval: delete vector: %w", err)
	}

	if s.records != nil {
		if err := s.records.Delete(ctx, id); err != nil && !errors.Is(err, catalog.ErrNotFound) {
			return fmt.Errorf("retrieval: delete record: %w", err)
		}
	}

	if s.store != nil && objectKey != "" {
		if err := s.store.RemoveImage(ctx, objectKey); err != nil {
			s.warn("failed to remove stored image", err, map[string]interface{}{"object_key": objectKey})
		}
	}

	s.publish(ctx, events.Event{
		Type:    events.TypeImageDeleted,
		Subject: id,
		Model:   s.model,
	})
	return nil
}

// search runs one vector query against the configured collection and joins
// payload metadata into hits.
func (s *Service) search(ctx context.Context, vec []float32, limit int, label string) ([]Hit, error) {
	if limit <= 0 {
		limit = s.cfg.TopK
	}

	req := vectordb.SearchRequest{
		Collection: s.cfg.Collection,
		Vector:     vec,
		Limit:      limit,
	}
	if label != "" {
		req.Filters = vectordb.NewFilter(vectordb.Must(vectordb.NewMatch("label", label)))
	}

	batches, err := s.db.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("retrieval: search: %w", err)
	}

	hits := make([]Hit, 0, len(batches[0]))
	for _, r := range batches[0] {
		hits = append(hits, Hit{
			ID:        r.ID,
			Score:     r.Score,
			Caption:   payloadString(r.Payload, "caption"),
			Label:     payloadString(r.Payload, "label"),
			ObjectKey: payloadString(r.Payload, "object_key"),
		})
	}

	if s.obs != nil {
		s.obs.ObserveRetrievalResults(s.cfg.Collection, len(hits))
	}

	s.publish(ctx, events.Event{
		Type:    events.TypeQueryServed,
		Subject: s.cfg.Collection,
		Model:   s.model,
		Fields:  map[string]any{"results": len(hits)},
	})
	return hits, nil
}

// embedImage returns the embedding for prepared image bytes, consulting the
// cache when one is configured.
func (s *Service) embedImage(ctx context.Context, prepared []byte) ([]float32, error) {
	return s.embed(ctx, "image", prepared, func(ctx context.Context) ([][]float32, error) {
		return s.encoder.EmbedImages(ctx, [][]byte{prepared})
	})
}

// embedText returns the embedding for a query string, consulting the cache
// when one is configured.
func (s *Service) embedText(ctx context.Context, text string) ([]float32, error) {
	return s.embed(ctx, "text", []byte(text), func(ctx context.Context) ([][]float32, error) {
		return s.encoder.EmbedTexts(ctx, []string{text})
	})
}

// embed looks an embedding up in the cache and falls back to inference on a
// miss. Cache write failures are logged, never returned.
func (s *Service) embed(ctx context.Context, modality string, content []byte, compute func(context.Context) ([][]float32, error)) ([]float32, error) {
	var key string
	if s.cache != nil {
		key = embcache.Key(modality, s.model, content)
		vec, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			s.observeCache("hit")
			return vec, nil
		case errors.Is(err, embcache.ErrMiss):
			s.observeCache("miss")
		default:
			s.observeCache("error")
			s.warn("embedding cache lookup failed", err, map[string]interface{}{"modality": modality})
		}
	}

	start := time.Now()
	vecs, err := compute(ctx)
	if err != nil {
		s.observeInference(start, "embed_"+modality, "error")
		return nil, fmt.Errorf("retrieval: embed %s: %w", modality, err)
	}
	s.observeInference(start, "embed_"+modality, "success")
	vec := vecs[0]

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, vec); err != nil {
			s.warn("failed to cache embedding", err, map[string]interface{}{"modality": modality})
		}
	}
	return vec, nil
}

func (s *Service) observeCache(outcome string) {
	if s.obs != nil {
		s.obs.ObserveCacheLookup(outcome)
	}
}

func (s *Service) observeInference(start time.Time, operation, status string) {
	if s.obs != nil {
		s.obs.ObserveInference(start, s.model, operation, status)
	}
}

// publish sends an event if a sink is configured; failures are logged, never
// returned, since events are advisory.
func (s *Service) publish(ctx context.Context, ev events.Event) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Publish(ctx, ev); err != nil {
		s.warn("failed to publish event", err, map[string]interface{}{"type": ev.Type, "subject": ev.Subject})
	}
}

func (s *Service) warn(msg string, err error, fields ...map[string]interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, err, fields...)
	}
}

func payloadString(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
