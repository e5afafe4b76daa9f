package driving

import (
	"context"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

// ReportService evaluates the query log.
type ReportService interface {
	// Latency averages latencies over successful queries.
	Latency(ctx context.Context) (*domain.LatencyReport, error)

	// Precision computes precision@k against a ground-truth set.
	Precision(ctx context.Context, truth domain.GroundTruth, k int) (*domain.PrecisionReport, error)
}
