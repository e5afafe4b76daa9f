package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driving"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// ReportService evaluates latency and retrieval precision from the query log.
type ReportService struct {
	reader driven.QueryLogReader
}

// NewReportService creates a report service.
func NewReportService(reader driven.QueryLogReader) *ReportService {
	return &ReportService{reader: reader}
}

// Latency averages retrieval, generation and total latency over
// successful entries.
func (s *ReportService) Latency(ctx context.Context) (*domain.LatencyReport, error) {
	entries, err := s.reader.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read query log: %w", err)
	}

	report := &domain.LatencyReport{TotalQueries: len(entries)}
	var retrieval, generation, total float64
	var retrievals, generations int
	for _, e := range entries {
		switch e.FallbackStage {
		case domain.FallbackLowConfidence:
			report.LowConfidenceQueries++
		case domain.FallbackGenerationError, domain.FallbackFailed:
			report.FallbackQueries++
		}
		if !e.Success {
			continue
		}
		report.SuccessfulQueries++
		if e.RetrievalLatencyMS != nil {
			retrieval += *e.RetrievalLatencyMS
			retrievals++
		}
		if e.GenerationLatencyMS != nil {
			generation += *e.GenerationLatencyMS
			generations++
		}
		total += e.TotalLatencyMS
	}

	report.AvgRetrievalMS = mean(retrieval, retrievals)
	report.AvgGenerationMS = mean(generation, generations)
	report.AvgTotalMS = mean(total, report.SuccessfulQueries)
	return report, nil
}

// Precision computes precision@k for every ground-truth query that has a
// successful grounded log entry. Low-confidence fallbacks are answered in
// general mode and are not scored. Entries match on the user's literal
// query, compared case-insensitively after trimming; the latest entry wins.
func (s *ReportService) Precision(ctx context.Context, truth domain.GroundTruth, k int) (*domain.PrecisionReport, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}

	entries, err := s.reader.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read query log: %w", err)
	}

	latest := make(map[string]domain.QueryLogEntry)
	for _, e := range entries {
		if e.Mode != domain.QueryModeRAG || !e.Success || len(e.RetrievedPages) == 0 {
			continue
		}
		latest[normaliseQuery(e.Query)] = e
	}

	report := &domain.PrecisionReport{K: k, Results: []domain.PrecisionResult{}}
	var sum float64
	for _, q := range truth.Queries {
		e, ok := latest[normaliseQuery(q.Query)]
		if !ok {
			continue
		}

		expected := make(map[int]bool, len(q.ExpectedPages))
		for _, p := range q.ExpectedPages {
			expected[p] = true
		}

		retrieved := e.RetrievedPages
		if len(retrieved) > k {
			retrieved = retrieved[:k]
		}
		relevant := 0
		for _, p := range retrieved {
			if expected[p] {
				relevant++
			}
		}

		precision := float64(relevant) / float64(len(retrieved))
		sum += precision
		report.Results = append(report.Results, domain.PrecisionResult{
			Query:     q.Query,
			Precision: round(precision, 4),
			Retrieved: len(retrieved),
			Relevant:  relevant,
		})
	}

	report.Evaluated = len(report.Results)
	if report.Evaluated > 0 {
		report.MeanPrecision = round(sum/float64(report.Evaluated), 4)
	}
	return report, nil
}

// mean returns sum/n rounded to two decimals, or 0 when n is 0.
func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return round(sum/float64(n), 2)
}

func normaliseQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
