package ai

import (
	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ProviderStatus is the outcome of checking one configured provider.
type ProviderStatus struct {
	// Role is "embedding" or "llm".
	Role       string
	Provider   domain.AIProvider
	Model      string
	Configured bool

	// Err is set when the provider is configured but unreachable or rejected.
	Err error
}

// OK reports whether the provider is configured and reachable.
func (s ProviderStatus) OK() bool {
	return s.Configured && s.Err == nil
}

// ConfigValidator validates AI provider configurations.
type ConfigValidator struct {
	validateEmbedding func(*domain.EmbeddingSettings) error
	validateLLM       func(*domain.LLMSettings) error
}

// NewConfigValidator creates a validator that pings real providers.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		validateEmbedding: ValidateEmbeddingConfig,
		validateLLM:       ValidateLLMConfig,
	}
}

// ValidateEmbedding validates an embedding configuration by pinging the provider.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	return v.validateEmbedding(config)
}

// ValidateLLM validates an LLM configuration by pinging the provider.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	return v.validateLLM(config)
}

// Check validates both providers in settings.
func (v *ConfigValidator) Check(settings *domain.AppSettings) []ProviderStatus {
	embedding := ProviderStatus{
		Role:       "embedding",
		Provider:   settings.Embedding.Provider,
		Model:      settings.Embedding.Model,
		Configured: settings.Embedding.IsConfigured(),
	}
	if embedding.Configured {
		embedding.Err = v.ValidateEmbedding(&settings.Embedding)
	}

	llm := ProviderStatus{
		Role:       "llm",
		Provider:   settings.LLM.Provider,
		Model:      settings.LLM.Model,
		Configured: settings.LLM.IsConfigured(),
	}
	if llm.Configured {
		llm.Err = v.ValidateLLM(&settings.LLM)
	}

	return []ProviderStatus{embedding, llm}
}
