// Package events publishes pipeline lifecycle notifications to Kafka.
//
// Downstream systems (re-indexers, analytics, audit) subscribe to a single
// topic and react to image indexing, deletion and query activity without
// coupling to the retrieval service. Messages are JSON-encoded Event values
// keyed by subject, so consumers observe per-entity ordering.
//
// Events are advisory: publishing failures are reported to the caller but
// must never abort the operation that triggered them.
package events
