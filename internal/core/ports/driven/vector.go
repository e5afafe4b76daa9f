package driven

import (
	"context"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

// VectorStore holds indexed chunks and answers filtered similarity queries.
// Chunks are immutable once upserted. Each call is atomic at the store level.
type VectorStore interface {
	// Upsert stores chunks with their embeddings in a single call.
	Upsert(ctx context.Context, chunks []domain.Chunk) error

	// Query returns up to q.TopK nearest chunks, nearest first.
	// An empty result is not an error.
	Query(ctx context.Context, q VectorQuery) ([]VectorMatch, error)

	// Close releases resources.
	Close() error
}

// VectorQuery describes one similarity search.
type VectorQuery struct {
	Embedding []float32
	TopK      int

	// FileID restricts matches to one document. Empty matches all documents.
	FileID string
}

// VectorMatch is one search hit.
type VectorMatch struct {
	// ID is the store's identifier for the chunk.
	ID string

	Chunk domain.Chunk

	// Distance is the cosine distance (0 = identical direction).
	Distance float64
}
