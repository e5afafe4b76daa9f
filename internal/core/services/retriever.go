package services

import (
	"context"
	"fmt"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
	"github.com/Otachiking/Chatbot-RAG/internal/logger"
)

// Retriever embeds a query and searches one document's chunks.
type Retriever struct {
	embedder *BatchEmbedder
	store    driven.VectorStore
}

// NewRetriever creates a retriever.
func NewRetriever(embedder *BatchEmbedder, store driven.VectorStore) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve returns up to topK chunks of fileID nearest to query, nearest
// first. A document with no indexed chunks yields an empty result.
func (r *Retriever) Retrieve(ctx context.Context, query, fileID string, topK int) (*domain.RetrievalResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidInput, topK)
	}
	if r.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if r.store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}

	embedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := r.store.Query(ctx, driven.VectorQuery{
		Embedding: embedding,
		TopK:      topK,
		FileID:    fileID,
	})
	if err != nil {
		return nil, fmt.Errorf("query vector store: %w", err)
	}

	result := &domain.RetrievalResult{Chunks: make([]domain.RetrievedChunk, 0, len(matches))}
	for _, m := range matches {
		result.Chunks = append(result.Chunks, domain.RetrievedChunk{
			ID:       m.ID,
			Chunk:    m.Chunk,
			Distance: m.Distance,
			Score:    domain.SimilarityFromDistance(m.Distance),
		})
	}

	logger.Debug("Retrieved %d chunks for file_id=%s (top score %.3f)", len(result.Chunks), fileID, result.TopScore())
	return result, nil
}
