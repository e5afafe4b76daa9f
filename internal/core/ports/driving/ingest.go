package driving

import (
	"context"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

// IngestService turns uploaded files into indexed chunks.
type IngestService interface {
	// Ingest extracts, chunks, embeds and indexes one file.
	Ingest(ctx context.Context, filename string, content []byte) (*domain.IngestionResult, error)
}

// DocumentService exposes the registry of ingested documents.
type DocumentService interface {
	// Get retrieves a document by file ID.
	Get(ctx context.Context, fileID string) (*domain.Document, error)

	// List returns all ingested documents.
	List(ctx context.Context) ([]domain.Document, error)
}
