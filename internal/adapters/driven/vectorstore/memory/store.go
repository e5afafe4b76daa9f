// Package memory provides an in-memory vector store and document registry.
// It is used for tests and for ephemeral servers (RAGBOT_VECTOR_STORE=memory).
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Otachiking/Chatbot-RAG/internal/adapters/driven/vectorstore"
	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
)

var (
	_ driven.VectorStore   = (*Store)(nil)
	_ driven.DocumentStore = (*Store)(nil)
)

// Store is an in-memory implementation of driven.VectorStore and
// driven.DocumentStore.
type Store struct {
	mu        sync.RWMutex
	chunks    map[string]domain.Chunk
	documents map[string]domain.Document
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		chunks:    make(map[string]domain.Chunk),
		documents: make(map[string]domain.Document),
	}
}

// Upsert stores chunks. The whole call is rejected if any chunk lacks an
// embedding.
func (s *Store) Upsert(_ context.Context, chunks []domain.Chunk) error {
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			return fmt.Errorf("%w: chunk %s has no embedding", domain.ErrInvalidInput, vectorstore.ChunkID(c.Key))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		c.Embedding = append([]float32(nil), c.Embedding...)
		s.chunks[vectorstore.ChunkID(c.Key)] = c
	}
	return nil
}

// Query returns the q.TopK nearest chunks by cosine distance.
func (s *Store) Query(_ context.Context, q driven.VectorQuery) ([]driven.VectorMatch, error) {
	if q.TopK <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ranker := vectorstore.NewRanker(q.Embedding)
	for _, c := range s.chunks {
		if q.FileID != "" && c.Key.FileID != q.FileID {
			continue
		}
		ranker.Add(c)
	}
	return ranker.Top(q.TopK), nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// Len returns the number of stored chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// SaveDocument stores or replaces a document record.
func (s *Store) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.FileID] = *doc
	return nil
}

// GetDocument retrieves a document by file ID.
func (s *Store) GetDocument(_ context.Context, fileID string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[fileID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents, newest first.
func (s *Store) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		result = append(result, doc)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].FileID < result[j].FileID
	})
	return result, nil
}
