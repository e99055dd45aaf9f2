// Package imagestore persists raw image bytes in an S3-compatible object
// store (MinIO, S3).
//
// The store is the system of record for image content: the vector database
// holds only embeddings and metadata, and the catalog holds records, both
// referencing objects here by key. PresignedGetURL produces time-limited
// links so consumers download images straight from the store.
//
// The client monitors its connection in the background and reconnects
// automatically; the configured bucket is created on startup when missing.
package imagestore
