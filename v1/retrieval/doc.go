// Package retrieval composes the multimodal components into the image
// search pipeline.
//
// The Service owns the end-to-end flows:
//
//   - IndexImage / IndexBatch normalize image bytes, embed them with the
//     dual encoder, persist the bytes to the object store, record metadata
//     in the catalog and upsert the vector into the database.
//   - SearchByText / SearchByImage embed a query and return the nearest
//     indexed images with their catalog metadata.
//   - Classify performs zero-shot classification by ranking prompt-wrapped
//     labels against an image.
//   - DeleteImage removes an image from all three stores and publishes a
//     deletion event.
//
// Dependencies are consumed through small local interfaces so the service
// can be exercised in tests without any backing infrastructure. The cache,
// object store, catalog, event sink and metrics observer are optional; only
// the encoder and the vector database are required.
package retrieval
