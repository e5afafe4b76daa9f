package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
)

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})

	assert.Error(t, err)
}

func TestChat_SendsSystemAndUser(t *testing.T) {
	var got chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Paris"}}]}`))
	}))
	defer srv.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	answer, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "be brief"},
		{Role: driven.RoleUser, Content: "capital of France?"},
	}, driven.ChatOptions{Temperature: 0.2})

	require.NoError(t, err)
	assert.Equal(t, "Paris", answer)
	assert.Equal(t, DefaultLLMModel, got.Model)
	assert.Equal(t, []chatCompletionMsg{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "capital of France?"},
	}, got.Messages)
	assert.InDelta(t, 0.2, got.Temperature, 1e-9)
}

func TestGenerate_PassesStopWords(t *testing.T) {
	var got chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "hi", driven.GenerateOptions{MaxTokens: 5, StopWords: []string{"\n"}})

	require.NoError(t, err)
	assert.Equal(t, 5, got.MaxTokens)
	assert.Equal(t, []string{"\n"}, got.Stop)
}

func TestChat_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status  int
		body    string
		target  error
		wantMsg string
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`, target: domain.ErrRateLimited},
		{
			name:    "api error",
			status:  http.StatusBadRequest,
			body:    `{"error":{"type":"invalid_request_error","message":"context too long"}}`,
			wantMsg: "openai: invalid_request_error (status 400): context too long",
		},
		{name: "plain text error", status: http.StatusBadGateway, body: "upstream unavailable", wantMsg: "upstream unavailable"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantMsg: "no response choices"},
		{name: "malformed success body", status: http.StatusOK, body: `{"choices":`, wantMsg: "decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: srv.URL})
			require.NoError(t, err)

			_, err = svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "x"}}, driven.ChatOptions{})

			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	assert.NoError(t, svc.Ping(context.Background()))
}

func TestPing_ReportsProviderMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_api_key","message":"Incorrect API key provided"}}`))
	}))
	defer srv.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	err = svc.Ping(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect API key provided")
	assert.NotErrorIs(t, err, domain.ErrRateLimited)
}
