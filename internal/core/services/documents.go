package services

import (
	"context"
	"fmt"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService exposes the registry of ingested documents.
type DocumentService struct {
	store driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(store driven.DocumentStore) *DocumentService {
	return &DocumentService{store: store}
}

// Get retrieves a document by file ID.
func (s *DocumentService) Get(ctx context.Context, fileID string) (*domain.Document, error) {
	if fileID == "" {
		return nil, fmt.Errorf("%w: file_id is required", domain.ErrInvalidInput)
	}
	return s.store.GetDocument(ctx, fileID)
}

// List returns all ingested documents, newest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.store.ListDocuments(ctx)
}
