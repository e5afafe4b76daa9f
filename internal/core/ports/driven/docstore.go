package driven

import (
	"context"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

// DocumentStore records ingested documents.
type DocumentStore interface {
	// SaveDocument stores a document record.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by file ID.
	// Returns domain.ErrNotFound when absent.
	GetDocument(ctx context.Context, fileID string) (*domain.Document, error)

	// ListDocuments returns all documents, newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}
