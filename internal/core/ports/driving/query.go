package driving

import (
	"context"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

// QueryService answers questions in general or grounded mode.
type QueryService interface {
	// HandleQuery routes, retrieves, generates and logs one query.
	// Backend failures are absorbed into the response; an error is
	// returned only for an invalid request.
	HandleQuery(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error)
}
