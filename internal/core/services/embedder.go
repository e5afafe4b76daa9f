package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
	"github.com/Otachiking/Chatbot-RAG/internal/logger"
)

// BatchEmbedder wraps an EmbeddingService and splits requests into
// provider-sized batches. Output order always matches input order.
type BatchEmbedder struct {
	service   driven.EmbeddingService
	batchSize int
	limiter   *RateLimiter
}

// maxRateLimitRetries bounds how often one batch is resent after a 429.
const maxRateLimitRetries = 2

// NewBatchEmbedder creates a batch embedder.
// A non-positive batchSize selects domain.DefaultEmbedBatchSize.
func NewBatchEmbedder(service driven.EmbeddingService, batchSize int) *BatchEmbedder {
	if batchSize <= 0 {
		batchSize = domain.DefaultEmbedBatchSize
	}
	return &BatchEmbedder{service: service, batchSize: batchSize}
}

// SetRateLimiter throttles provider calls through l.
func (e *BatchEmbedder) SetRateLimiter(l *RateLimiter) {
	e.limiter = l
}

// BatchSize returns the maximum texts sent per provider call.
func (e *BatchEmbedder) BatchSize() int {
	return e.batchSize
}

// Embed returns one vector per text. Single-text batches use the
// provider's single-item call.
func (e *BatchEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e.service == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]
		logger.Debug("Embedding batch %d-%d of %d", start, end, len(texts))

		got, err := e.embedThrottled(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("embed batch at %d: %w", start, err)
		}
		vectors = append(vectors, got...)
	}

	return vectors, nil
}

// EmbedQuery embeds a single query text.
func (e *BatchEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// embedThrottled waits on the limiter and resends a batch the provider
// rejected as rate limited.
func (e *BatchEmbedder) embedThrottled(ctx context.Context, batch []string) ([][]float32, error) {
	if e.limiter == nil {
		return e.embedBatch(ctx, batch)
	}

	for attempt := 0; ; attempt++ {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		vectors, err := e.embedBatch(ctx, batch)
		if err == nil || !errors.Is(err, domain.ErrRateLimited) || attempt >= maxRateLimitRetries {
			return vectors, err
		}
		logger.Warn("Embedding provider rate limited, backing off (attempt %d)", attempt+1)
		e.limiter.RecordRateLimitError(domain.RetryAfter(err))
	}
}

func (e *BatchEmbedder) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	if len(batch) == 1 {
		v, err := e.service.Embed(ctx, batch[0])
		if err != nil {
			return nil, err
		}
		return [][]float32{v}, nil
	}

	vectors, err := e.service.EmbedBatch(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("%w: sent %d texts, got %d vectors",
			domain.ErrDimensionMismatch, len(batch), len(vectors))
	}
	return vectors, nil
}
