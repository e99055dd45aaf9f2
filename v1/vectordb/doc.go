// Package vectordb defines a database-agnostic abstraction for vector
// similarity search over image and text embeddings.
//
// Applications depend on the [Service] interface and the types in this
// package only; concrete adapters (package qdrant today) implement it.
// Swapping the backing store never touches retrieval code:
//
//	type Retriever struct {
//	    db vectordb.Service
//	}
//
//	results, err := r.db.Search(ctx, vectordb.SearchRequest{
//	    Collection: "images",
//	    Vector:     queryVec,
//	    Limit:      5,
//	    Filters: vectordb.NewFilter(
//	        vectordb.Must(vectordb.NewMatch("label", "cat")),
//	    ),
//	})
//
// Scores follow the collection's distance metric. Retrieval collections use
// cosine distance, so higher scores mean more similar.
package vectordb
