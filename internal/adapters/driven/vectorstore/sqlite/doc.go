// Package sqlite provides a SQLite-backed vector store and document registry.
//
// It uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. One database file holds both concerns:
//
//   - driven.VectorStore: chunks with their embeddings and metadata
//   - driven.DocumentStore: one record per ingested document
//
// Embeddings are stored as little-endian float32 blobs. Similarity search is
// an exact cosine scan over the candidate rows, filtered by file ID in SQL.
//
// # Schema
//
// The schema is managed through versioned migrations in migrations/.
//
// # Data Location
//
// The database lives at <data dir>/vectors.db.
package sqlite
