package domain

import (
	"math"
	"time"
)

// QueryLogEntry is one record per completed query attempt.
// Entries are append-only.
type QueryLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`

	// Query is the user's literal text. EffectiveQuery is what was sent to
	// retrieval and generation after any summarize/quiz rewrite.
	Query          string `json:"query"`
	EffectiveQuery string `json:"effective_query"`

	QueryType     QueryType     `json:"query_type"`
	Mode          QueryMode     `json:"mode"`
	FallbackStage FallbackStage `json:"fallback_stage"`
	FileID        string        `json:"file_id,omitempty"`
	UseRAG        bool          `json:"use_rag"`

	RetrievedChunkIDs []string  `json:"retrieved_chunk_ids"`
	RetrievedPages    []int     `json:"retrieved_pages"`
	RetrievalScores   []float64 `json:"retrieval_scores"`

	// RetrievalLatencyMS and GenerationLatencyMS are nil when the step
	// never ran, e.g. retrieval in general mode.
	RetrievalLatencyMS  *float64 `json:"retrieval_latency_ms"`
	GenerationLatencyMS *float64 `json:"generation_latency_ms"`
	TotalLatencyMS      float64  `json:"total_latency_ms"`

	Success bool   `json:"success"`
	Stage   Stage  `json:"stage,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Milliseconds converts d to milliseconds rounded to two decimals.
func Milliseconds(d time.Duration) float64 {
	return math.Round(float64(d)/float64(time.Millisecond)*100) / 100
}

// LatencyMS returns Milliseconds(d) for a step that ran.
func LatencyMS(d time.Duration) *float64 {
	ms := Milliseconds(d)
	return &ms
}

// GroundTruthQuery is one labelled query for precision evaluation.
type GroundTruthQuery struct {
	Query         string `json:"query"`
	ExpectedPages []int  `json:"expected_pages"`
}

// GroundTruth is the evaluation set read by the report service.
type GroundTruth struct {
	Queries []GroundTruthQuery `json:"queries"`
}

// LatencyReport aggregates latencies over successful log entries.
// Step averages only include entries where that step ran.
type LatencyReport struct {
	TotalQueries         int     `json:"total_queries"`
	SuccessfulQueries    int     `json:"successful_queries"`
	AvgRetrievalMS       float64 `json:"avg_retrieval_latency_ms"`
	AvgGenerationMS      float64 `json:"avg_generation_latency_ms"`
	AvgTotalMS           float64 `json:"avg_total_latency_ms"`
	FallbackQueries      int     `json:"fallback_queries"`
	LowConfidenceQueries int     `json:"low_confidence_queries"`
}

// PrecisionResult is precision@K for one evaluated query.
type PrecisionResult struct {
	Query     string  `json:"query"`
	Precision float64 `json:"precision"`
	Retrieved int     `json:"retrieved"`
	Relevant  int     `json:"relevant"`
}

// PrecisionReport aggregates precision@K over the matched ground-truth queries.
type PrecisionReport struct {
	K             int               `json:"k"`
	Evaluated     int               `json:"evaluated"`
	MeanPrecision float64           `json:"mean_precision"`
	Results       []PrecisionResult `json:"results"`
}
