package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.EmbeddingSettings
		wantNil     bool
		wantErr     bool
		errContains string
		wantModel   string
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.EmbeddingSettings{},
			wantNil:  true,
		},
		{
			name: "gemini without key is not configured",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderGemini,
			},
			wantNil: true,
		},
		{
			name: "gemini provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderGemini,
				APIKey:   "test-key",
				Model:    "gemini-embedding-001",
			},
			wantModel: "gemini-embedding-001",
		},
		{
			name: "ollama provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "nomic-embed-text",
			},
			wantModel: "nomic-embed-text",
		},
		{
			name: "openai provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-small",
			},
			wantModel: "text-embedding-3-small",
		},
		{
			name: "anthropic provider returns error",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
			wantNil:     true,
			wantErr:     true,
			errContains: "anthropic does not support embeddings",
		},
		{
			name: "unknown provider is not configured",
			settings: &domain.EmbeddingSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(context.Background(), tt.settings)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				require.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.LLMSettings
		wantNil   bool
		wantModel string
	}{
		{name: "nil settings", settings: nil, wantNil: true},
		{name: "missing key", settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI}, wantNil: true},
		{
			name:      "gemini",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderGemini, APIKey: "k", Model: "gemini-2.5-flash"},
			wantModel: "gemini-2.5-flash",
		},
		{
			name:      "ollama",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"},
			wantModel: "llama3.2",
		},
		{
			name:      "openai",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "gpt-4o-mini"},
			wantModel: "gpt-4o-mini",
		},
		{
			name:      "anthropic",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k", Model: "claude-3-5-sonnet-latest"},
			wantModel: "claude-3-5-sonnet-latest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(context.Background(), tt.settings)

			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestCreateAndValidateEmbeddingService_NotConfigured(t *testing.T) {
	_, err := CreateAndValidateEmbeddingService(context.Background(), &domain.EmbeddingSettings{})

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestCreateAndValidateEmbeddingService_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := CreateAndValidateEmbeddingService(context.Background(), &domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  srv.URL,
	})

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestCreateAndValidateLLMService_Reachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	svc, err := CreateAndValidateLLMService(context.Background(), &domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  srv.URL,
	})

	require.NoError(t, err)
	assert.Equal(t, "llama3.2", svc.ModelName())
}

func TestCreateAndValidateLLMService_NotConfigured(t *testing.T) {
	_, err := CreateAndValidateLLMService(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestValidateConfig_Unconfigured(t *testing.T) {
	assert.NoError(t, ValidateEmbeddingConfig(nil))
	assert.NoError(t, ValidateLLMConfig(&domain.LLMSettings{}))
}

func TestValidateLLMConfig_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := ValidateLLMConfig(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL})

	assert.Error(t, err)
}
