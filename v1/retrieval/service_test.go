package retrieval

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantage-ml/multimodal/v1/catalog"
	"github.com/vantage-ml/multimodal/v1/dualencoder"
	"github.com/vantage-ml/multimodal/v1/embcache"
	"github.com/vantage-ml/multimodal/v1/events"
	"github.com/vantage-ml/multimodal/v1/vectordb"
)

// testPNG renders a small gradient PNG that survives the preprocessing
// pipeline.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 5), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fakeEncoder struct {
	mu         sync.Mutex
	textCalls  int
	imageCalls int
	rankCalls  [][]string
	vector     []float32
	scores     []dualencoder.Score
	err        error
}

func (f *fakeEncoder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.textCalls++
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = f.vector
	}
	return out, nil
}

func (f *fakeEncoder) EmbedImages(_ context.Context, images [][]byte) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.imageCalls++
	out := make([][]float32, len(images))
	for i := range out {
		out[i] = f.vector
	}
	return out, nil
}

func (f *fakeEncoder) Rank(_ context.Context, _ []byte, candidates []string) ([]dualencoder.Score, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.rankCalls = append(f.rankCalls, candidates)
	return f.scores, nil
}

type fakeDB struct {
	mu       sync.Mutex
	upserts  []vectordb.Point
	deleted  []string
	ensured  []string
	results  []vectordb.SearchResult
	requests []vectordb.SearchRequest
	err      error
}

func (f *fakeDB) Search(_ context.Context, requests ...vectordb.SearchRequest) ([][]vectordb.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, requests...)
	out := make([][]vectordb.SearchResult, len(requests))
	for i := range out {
		out[i] = f.results
	}
	return out, nil
}

func (f *fakeDB) Upsert(_ context.Context, _ string, points []vectordb.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, points...)
	return nil
}

func (f *fakeDB) Delete(_ context.Context, _ string, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ids...)
	return nil
}

func (f *fakeDB) EnsureCollection(_ context.Context, name string, _ uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensured = append(f.ensured, name)
	return nil
}

func (f *fakeDB) GetCollection(_ context.Context, name string) (*vectordb.CollectionInfo, error) {
	return &vectordb.CollectionInfo{Name: name}, nil
}

func (f *fakeDB) ListCollections(_ context.Context) ([]string, error) {
	return nil, nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]float32
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]float32{}}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	vec, ok := f.entries[key]
	if !ok {
		return nil, embcache.ErrMiss
	}
	return vec, nil
}

func (f *fakeCache) Put(_ context.Context, key string, vec []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	f.entries[key] = vec
	return nil
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) PutImage(_ context.Context, key string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeStore) GetImage(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("no such object %s", key)
	}
	return data, nil
}

func (f *fakeStore) RemoveImage(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.removed = append(f.removed, key)
	return nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	records map[string]*catalog.ImageRecord
	deleted []string
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{records: map[string]*catalog.ImageRecord{}}
}

func (f *fakeRecorder) Create(_ context.Context, record *catalog.ImageRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[record.ID] = record
	return nil
}

func (f *fakeRecorder) Get(_ context.Context, id string) (*catalog.ImageRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return record, nil
}

func (f *fakeRecorder) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSink struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakeSink) Publish(_ context.Context, ev events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

type fakeObserver struct {
	mu         sync.Mutex
	lookups    []string
	counts     []int
	inferences []string
}

func (f *fakeObserver) ObserveInference(_ time.Time, _, operation, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inferences = append(f.inferences, operation+":"+status)
}

func (f *fakeObserver) ObserveCacheLookup(outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, outcome)
}

func (f *fakeObserver) ObserveRetrievalResults(_ string, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = append(f.counts, count)
}

type testHarness struct {
	svc      *Service
	encoder  *fakeEncoder
	db       *fakeDB
	cache    *fakeCache
	store    *fakeStore
	recorder *fakeRecorder
	sink     *fakeSink
	obs      *fakeObserver
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	h := &testHarness{
		encoder:  &fakeEncoder{vector: []float32{0.6, 0.8}},
		db:       &fakeDB{},
		cache:    newFakeCache(),
		store:    newFakeStore(),
		recorder: newFakeRecorder(),
		sink:     &fakeSink{},
		obs:      &fakeObserver{},
	}

	cfg := &Config{Collection: "test-images", VectorSize: 2, TopK: 3}
	svc, err := NewService(cfg, "clip-test", h.encoder, h.db, h.cache, h.store, h.recorder, h.sink, h.obs, nil)
	require.NoError(t, err)

	h.svc = svc
	return h
}

func TestNewServiceRequiresCoreDependencies(t *testing.T) {
	cfg := &Config{}

	_, err := NewService(cfg, "m", nil, &fakeDB{}, nil, nil, nil, nil, nil, nil)
	require.ErrorContains(t, err, "encoder is required")

	_, err = NewService(cfg, "m", &fakeEncoder{}, nil, nil, nil, nil, nil, nil, nil)
	require.ErrorContains(t, err, "vector database is required")
}

func TestIndexImage(t *testing.T) {
	h := newTestHarness(t)

	res, err := h.svc.IndexImage(context.Background(), IndexRequest{
		Data:    testPNG(t, 320, 240),
		Caption: "a striped gradient",
		Label:   "gradient",
	})
	require.NoError(t, err)

	_, err = uuid.Parse(res.ID)
	require.NoError(t, err)
	assert.Equal(t, "test-images/"+res.ID+".jpg", res.ObjectKey)

	// Stored bytes are the preprocessed JPEG, not the original PNG.
	stored, err := h.store.GetImage(context.Background(), res.ObjectKey)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(stored, []byte{0xff, 0xd8}))

	record, err := h.recorder.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 320, record.Width)
	assert.Equal(t, 240, record.Height)
	assert.Equal(t, "png", record.Format)
	assert.Equal(t, "gradient", record.Label)

	require.Len(t, h.db.upserts, 1)
	point := h.db.upserts[0]
	assert.Equal(t, res.ID, point.ID)
	assert.Equal(t, []float32{0.6, 0.8}, point.Vector)
	assert.Equal(t, "gradient", point.Payload["label"])
	assert.Equal(t, "a striped gradient", point.Payload["caption"])

	require.Len(t, h.sink.events, 1)
	assert.Equal(t, events.TypeImageIndexed, h.sink.events[0].Type)
	assert.Equal(t, res.ID, h.sink.events[0].Subject)
	assert.Equal(t, "clip-test", h.sink.events[0].Model)
}

func TestIndexImageValidation(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.svc.IndexImage(context.Background(), IndexRequest{})
	require.ErrorContains(t, err, "must not be empty")

	// Undecodable bytes are a permanent failure and carry the sentinel so
	// queue consumers can dead-letter instead of requeueing.
	_, err = h.svc.IndexImage(context.Background(), IndexRequest{Data: []byte("not an image")})
	require.ErrorIs(t, err, ErrBadImage)
	assert.Empty(t, h.db.upserts)
}

func TestUndecodableBytesCarrySentinel(t *testing.T) {
	h := newTestHarness(t)
	garbage := []byte("plain text, not pixels")

	_, err := h.svc.SearchByImage(context.Background(), garbage, 1, "")
	require.ErrorIs(t, err, ErrBadImage)

	_, err = h.svc.Classify(context.Background(), garbage, []string{"cat"})
	require.ErrorIs(t, err, ErrBadImage)
}

func TestIndexBatchPreservesOrder(t *testing.T) {
	h := newTestHarness(t)

	reqs := []IndexRequest{
		{Data: testPNG(t, 100, 100), Label: "first"},
		{Data: testPNG(t, 120, 90), Label: "second"},
		{Data: testPNG(t, 90, 120), Label: "third"},
	}

	results, err := h.svc.IndexBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, res := range results {
		require.NotNil(t, res, "result %d", i)
		record, err := h.recorder.Get(context.Background(), res.ID)
		require.NoError(t, err)
		assert.Equal(t, reqs[i].Label, record.Label)
	}
}

func TestIndexBatchFailsFast(t *testing.T) {
	h := newTestHarness(t)

	reqs := []IndexRequest{
		{Data: testPNG(t, 100, 100)},
		{Data: []byte("broken")},
	}

	_, err := h.svc.IndexBatch(context.Background(), reqs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image 1")
}

func TestSearchByText(t *testing.T) {
	h := newTestHarness(t)
	h.db.results = []vectordb.SearchResult{
		{ID: "a", Score: 0.97, Payload: map[string]any{"caption": "a cat", "label": "cat", "object_key": "test-images/a.jpg"}},
		{ID: "b", Score: 0.84, Payload: map[string]any{"label": "dog"}},
	}

	hits, err := h.svc.SearchByText(context.Background(), "a photo of a cat", 0, "")
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, "a cat", hits[0].Caption)
	assert.Equal(t, "test-images/a.jpg", hits[0].ObjectKey)
	assert.Equal(t, "dog", hits[1].Label)

	// Zero limit falls back to the configured top-k.
	require.Len(t, h.db.requests, 1)
	assert.Equal(t, 3, h.db.requests[0].Limit)
	assert.Nil(t, h.db.requests[0].Filters)

	assert.Equal(t, []int{2}, h.obs.counts)

	require.Len(t, h.sink.events, 1)
	assert.Equal(t, events.TypeQueryServed, h.sink.events[0].Type)
}

func TestSearchByTextLabelFilter(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.svc.SearchByText(context.Background(), "query", 10, "cat")
	require.NoError(t, err)

	require.Len(t, h.db.requests, 1)
	req := h.db.requests[0]
	assert.Equal(t, 10, req.Limit)
	require.NotNil(t, req.Filters)
	require.Len(t, req.Filters.Must, 1)
}

func TestSearchByTextUsesCache(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.svc.SearchByText(context.Background(), "repeated query", 0, "")
	require.NoError(t, err)
	_, err = h.svc.SearchByText(context.Background(), "repeated query", 0, "")
	require.NoError(t, err)

	assert.Equal(t, 1, h.encoder.textCalls)
	assert.Equal(t, 1, h.cache.puts)
	assert.Equal(t, []string{"miss", "hit"}, h.obs.lookups)
	assert.Equal(t, []string{"embed_text:success"}, h.obs.inferences)
}

func TestSearchByImage(t *testing.T) {
	h := newTestHarness(t)
	h.db.results = []vectordb.SearchResult{{ID: "x", Score: 0.9}}

	hits, err := h.svc.SearchByImage(context.Background(), testPNG(t, 64, 64), 1, "")
	require.NoError(t, err)

	require.Len(t, hits, 1)
	assert.Equal(t, "x", hits[0].ID)
	assert.Equal(t, 1, h.encoder.imageCalls)
}

func TestClassify(t *testing.T) {
	h := newTestHarness(t)
	h.encoder.scores = []dualencoder.Score{
		{Text: "a photo of a cat", Cosine: 0.31, Probability: 0.92},
		{Text: "a photo of a dog", Cosine: 0.12, Probability: 0.08},
	}

	preds, err := h.svc.Classify(context.Background(), testPNG(t, 64, 64), []string{"cat", "dog"})
	require.NoError(t, err)

	// Labels were wrapped in the prompt template before ranking.
	require.Len(t, h.encoder.rankCalls, 1)
	assert.Equal(t, []string{"a photo of a cat", "a photo of a dog"}, h.encoder.rankCalls[0])

	// Predictions carry the caller's bare labels back out.
	require.Len(t, preds, 2)
	assert.Equal(t, "cat", preds[0].Label)
	assert.InDelta(t, 0.92, preds[0].Probability, 1e-9)
	assert.Equal(t, "dog", preds[1].Label)

	assert.Equal(t, []string{"rank:success"}, h.obs.inferences)
}

func TestClassifyValidation(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.svc.Classify(context.Background(), nil, []string{"cat"})
	require.ErrorContains(t, err, "image data must not be empty")

	_, err = h.svc.Classify(context.Background(), testPNG(t, 32, 32), nil)
	require.ErrorContains(t, err, "labels must not be empty")
}

func TestDeleteImage(t *testing.T) {
	h := newTestHarness(t)

	res, err := h.svc.IndexImage(context.Background(), IndexRequest{Data: testPNG(t, 64, 64)})
	require.NoError(t, err)

	require.NoError(t, h.svc.DeleteImage(context.Background(), res.ID))

	assert.Equal(t, []string{res.ID}, h.db.deleted)
	assert.Equal(t, []string{res.ID}, h.recorder.deleted)
	assert.Equal(t, []string{res.ObjectKey}, h.store.removed)

	last := h.sink.events[len(h.sink.events)-1]
	assert.Equal(t, events.TypeImageDeleted, last.Type)
	assert.Equal(t, res.ID, last.Subject)
}

func TestDeleteImageMissingRecord(t *testing.T) {
	h := newTestHarness(t)

	// No catalog record exists; the vector delete still goes through.
	require.NoError(t, h.svc.DeleteImage(context.Background(), "orphan"))
	assert.Equal(t, []string{"orphan"}, h.db.deleted)
	assert.Empty(t, h.store.removed)
}

func TestEnsureCollection(t *testing.T) {
	h := newTestHarness(t)

	require.NoError(t, h.svc.EnsureCollection(context.Background()))
	assert.Equal(t, []string{"test-images"}, h.db.ensured)
}

func TestConfigDefaults(t *testing.T) {
	cfg := (&Config{}).withDefaults()
	assert.Equal(t, DefaultCollection, cfg.Collection)
	assert.Equal(t, uint64(DefaultVectorSize), cfg.VectorSize)
	assert.Equal(t, DefaultTopK, cfg.TopK)
	assert.True(t, strings.Contains(cfg.PromptTemplate, "%s"))
}
