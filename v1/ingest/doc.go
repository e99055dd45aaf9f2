// Package ingest consumes image index jobs from RabbitMQ.
//
// Producers publish JSON Job messages with base64-encoded image bytes; the
// consumer decodes each job and hands it to the retrieval service. Malformed
// jobs are dead-lettered immediately since redelivery cannot fix them, while
// transient indexing failures are requeued for another attempt. A small
// worker pool bounds concurrent indexing, and the prefetch count keeps the
// broker from flooding slow consumers.
package ingest
