package driven

import (
	"context"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

// QueryLogSink appends query log entries. Failures must not fail the query.
type QueryLogSink interface {
	Append(ctx context.Context, entry domain.QueryLogEntry) error
}

// QueryLogReader reads back the query log in append order.
type QueryLogReader interface {
	Read(ctx context.Context) ([]domain.QueryLogEntry, error)
}
