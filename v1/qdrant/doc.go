// Package qdrant implements vectordb.Service on top of the official Qdrant
// Go client.
//
// The adapter keeps Qdrant's protobuf surface out of application code:
// points, filters and results cross the boundary as vectordb types only.
// Collections are created with cosine distance, matching how dual-encoder
// embeddings are compared.
//
//	client, err := qdrant.NewClient(qdrant.NewConfig(), log)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	if err := client.EnsureCollection(ctx, "images", 512); err != nil {
//	    return err
//	}
//
// Writes use Wait=true so data is durable when the call returns, which keeps
// index-then-search flows deterministic.
package qdrant
