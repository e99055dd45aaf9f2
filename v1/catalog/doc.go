// Package catalog keeps the relational record of indexed images in
// PostgreSQL.
//
// Each ImageRecord ties together the three places an image lives: the
// object store (by ObjectKey), the vector database (by ID) and the caption
// and label metadata used for browsing. Exact lookups, label listings and
// counts go through the catalog; similarity queries go through the vector
// database.
//
// The schema is migrated automatically on startup.
package catalog
