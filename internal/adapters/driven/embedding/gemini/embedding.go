// Package gemini provides an embedding service adapter using the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/generativelanguage/v1beta"

	"github.com/Otachiking/Chatbot-RAG/internal/adapters/driven/googleai"
	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "gemini-embedding-001"
	DefaultTimeout    = 60 * time.Second
	DefaultDimensions = 3072
)

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// Model is the embedding model to use (default: gemini-embedding-001).
	Model string

	// Timeout bounds each request (default: 60s).
	Timeout time.Duration

	// Dimensions requests a truncated output size. Zero keeps the model default.
	Dimensions int
}

// EmbeddingService generates embeddings with embedContent and batchEmbedContents.
type EmbeddingService struct {
	models     *generativelanguage.ModelsService
	model      string
	timeout    time.Duration
	dimensions int
	outputDim  int64
}

// NewEmbeddingService creates a new Gemini embedding service.
func NewEmbeddingService(ctx context.Context, cfg Config) (*EmbeddingService, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	svc, err := googleai.NewService(ctx, googleai.Config{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL})
	if err != nil {
		return nil, err
	}

	dimensions := cfg.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[cfg.Model]
		if dimensions == 0 {
			dimensions = DefaultDimensions
		}
	}

	return &EmbeddingService{
		models:     svc.Models,
		model:      googleai.ModelPath(cfg.Model),
		timeout:    cfg.Timeout,
		dimensions: dimensions,
		outputDim:  int64(cfg.Dimensions),
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.models.EmbedContent(s.model, s.request(text)).Context(ctx).Do()
	if err != nil {
		return nil, googleai.WrapError(err)
	}
	if resp.Embedding == nil {
		return nil, fmt.Errorf("gemini: no embedding returned")
	}
	return toFloat32(resp.Embedding.Values), nil
}

// EmbedBatch embeds all texts in one batchEmbedContents call.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := &generativelanguage.BatchEmbedContentsRequest{
		Requests: make([]*generativelanguage.EmbedContentRequest, len(texts)),
	}
	for i, text := range texts {
		req.Requests[i] = s.request(text)
	}

	resp, err := s.models.BatchEmbedContents(s.model, req).Context(ctx).Do()
	if err != nil {
		return nil, googleai.WrapError(err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini: %w: sent %d texts, got %d vectors",
			domain.ErrDimensionMismatch, len(texts), len(resp.Embeddings))
	}

	vectors := make([][]float32, len(texts))
	for i, e := range resp.Embeddings {
		if e == nil {
			return nil, fmt.Errorf("gemini: %w: missing embedding %d", domain.ErrDimensionMismatch, i)
		}
		vectors[i] = toFloat32(e.Values)
	}
	return vectors, nil
}

func (s *EmbeddingService) request(text string) *generativelanguage.EmbedContentRequest {
	return &generativelanguage.EmbedContentRequest{
		Model:                s.model,
		Content:              googleai.TextContent("", text),
		OutputDimensionality: s.outputDim,
	}
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the model name without the "models/" prefix.
func (s *EmbeddingService) ModelName() string {
	return s.model[len("models/"):]
}

// Ping fetches the model metadata, which validates the key without
// running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.models.Get(s.model).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", googleai.WrapError(err))
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
