// Package embcache caches embedding vectors in Redis.
//
// Embedding inference is the expensive step of every similarity and
// retrieval operation, and it is deterministic for a given checkpoint: the
// same text or image bytes always map to the same vector. The cache keys
// vectors by a digest of (modality, model, content) so repeated requests
// skip the inference round trip entirely.
//
// Typical use wraps the provider call with GetOrCompute:
//
//	key := embcache.Key("text", cfg.Model, []byte(query))
//	vec, err := cache.GetOrCompute(ctx, key, func(ctx context.Context) ([]float32, error) {
//	    vecs, err := encoder.EmbedTexts(ctx, []string{query})
//	    if err != nil {
//	        return nil, err
//	    }
//	    return vecs[0], nil
//	})
//
// Entries expire after a configurable TTL. Expiry bounds memory use only;
// cached vectors never go stale.
package embcache
