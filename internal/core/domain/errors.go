package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type the extractor cannot read.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store cannot be reached.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrExtractionUnavailable indicates the external text extraction tools are missing.
	ErrExtractionUnavailable = errors.New("text extraction unavailable")

	// ErrIngestion indicates a document could not be embedded or indexed.
	// Extraction problems never produce this error; they degrade per page.
	ErrIngestion = errors.New("ingestion failed")

	// ErrGeneration indicates the generation provider failed or returned nothing.
	ErrGeneration = errors.New("generation failed")

	// ErrRateLimited indicates a provider rejected a request with a quota or
	// rate limit response.
	ErrRateLimited = errors.New("rate limited")

	// ErrDimensionMismatch indicates an embedding provider returned a different
	// number of vectors than texts it was given.
	ErrDimensionMismatch = errors.New("embedding count mismatch")
)

// Stage names a step of the query pipeline. It tags failures in logs.
type Stage string

// Query pipeline stages.
const (
	StageModeSelect Stage = "mode_select"
	StageRetrieve   Stage = "retrieve"
	StageGenerate   Stage = "generate"
	StageFallback   Stage = "fallback"
)

// StageError records which pipeline stage produced an error.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements error.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage recorded on err, or "" when err carries none.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// RetryAfter returns the delay a rate limited provider asked for, or zero
// when err does not carry one.
func RetryAfter(err error) time.Duration {
	var rd interface{ RetryDelay() time.Duration }
	if errors.As(err, &rd) {
		return rd.RetryDelay()
	}
	return 0
}
