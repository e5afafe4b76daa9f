// Package gemini provides an LLM service adapter using the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/generativelanguage/v1beta"

	"github.com/Otachiking/Chatbot-RAG/internal/adapters/driven/googleai"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// Model is the LLM model to use (default: gemini-2.5-flash).
	Model string

	// Timeout bounds each request (default: 120s).
	Timeout time.Duration
}

// LLMService generates text with models.generateContent.
type LLMService struct {
	models  *generativelanguage.ModelsService
	model   string
	timeout time.Duration
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
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

	return &LLMService{
		models:  svc.Models,
		model:   googleai.ModelPath(cfg.Model),
		timeout: cfg.Timeout,
	}, nil
}

// Generate produces text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		Contents:         []*generativelanguage.Content{googleai.TextContent("user", prompt)},
		GenerationConfig: generationConfig(opts.MaxTokens, opts.Temperature, opts.StopWords),
	}
	return s.generate(ctx, req)
}

// Chat conducts a multi-turn conversation. System messages become the
// request's system instruction and assistant turns use the "model" role.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		GenerationConfig: generationConfig(opts.MaxTokens, opts.Temperature, nil),
	}

	var system []string
	for _, msg := range messages {
		switch msg.Role {
		case driven.RoleSystem:
			system = append(system, msg.Content)
		case driven.RoleAssistant:
			req.Contents = append(req.Contents, googleai.TextContent("model", msg.Content))
		default:
			req.Contents = append(req.Contents, googleai.TextContent("user", msg.Content))
		}
	}
	if len(system) > 0 {
		req.SystemInstruction = googleai.TextContent("", strings.Join(system, "\n\n"))
	}

	return s.generate(ctx, req)
}

func (s *LLMService) generate(ctx context.Context, req *generativelanguage.GenerateContentRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.models.GenerateContent(s.model, req).Context(ctx).Do()
	if err != nil {
		return "", googleai.WrapError(err)
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("gemini: prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("gemini: no candidates returned")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", fmt.Errorf("gemini: empty candidate (finish reason %s)", candidate.FinishReason)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}

func generationConfig(maxTokens int, temperature float64, stop []string) *generativelanguage.GenerationConfig {
	if maxTokens <= 0 && temperature <= 0 && len(stop) == 0 {
		return nil
	}
	return &generativelanguage.GenerationConfig{
		MaxOutputTokens: int64(maxTokens),
		Temperature:     temperature,
		StopSequences:   stop,
	}
}

// ModelName returns the model name without the "models/" prefix.
func (s *LLMService) ModelName() string {
	return strings.TrimPrefix(s.model, "models/")
}

// Ping fetches the model metadata, which validates the key without
// running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.models.Get(s.model).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", googleai.WrapError(err))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
