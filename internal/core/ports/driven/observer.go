package driven

import (
	"time"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

// Observer receives pipeline outcomes for metrics export.
// This is optional; services skip it when nil.
type Observer interface {
	// QueryCompleted records one finished query.
	QueryCompleted(entry domain.QueryLogEntry)

	// IngestionCompleted records one finished ingestion attempt.
	IngestionCompleted(fileType domain.FileType, chunks int, duration time.Duration, err error)
}
