package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
)

func TestNewLLMService_Defaults(t *testing.T) {
	svc := NewLLMService(LLMConfig{})

	assert.Equal(t, DefaultLLMModel, svc.ModelName())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
}

func TestChat(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"hi there"},"done":true}`))
	}))
	defer srv.Close()

	svc := NewLLMService(LLMConfig{BaseURL: srv.URL})

	answer, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "sys"},
		{Role: driven.RoleUser, Content: "hello"},
	}, driven.ChatOptions{})

	require.NoError(t, err)
	assert.Equal(t, "hi there", answer)
	assert.False(t, got.Stream)
	assert.Nil(t, got.Options)
	assert.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
}

func TestGenerate(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"response":"done","done":true}`))
	}))
	defer srv.Close()

	svc := NewLLMService(LLMConfig{BaseURL: srv.URL})

	answer, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{MaxTokens: 12})

	require.NoError(t, err)
	assert.Equal(t, "done", answer)
	require.NotNil(t, got.Options)
	assert.Equal(t, 12, got.Options.NumPredict)
}

func TestChat_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model missing", http.StatusNotFound)
	}))
	defer srv.Close()

	svc := NewLLMService(LLMConfig{BaseURL: srv.URL})

	_, err := svc.Chat(context.Background(), nil, driven.ChatOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestGenerate_ErrorBodyMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model \"llama9\" not found, try pulling it first"}`))
	}))
	defer srv.Close()

	svc := NewLLMService(LLMConfig{BaseURL: srv.URL, Model: "llama9"})

	_, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{})

	require.Error(t, err)
	assert.Equal(t, `ollama: status 404: model "llama9" not found, try pulling it first`, err.Error())
}

func TestPing_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewLLMService(LLMConfig{BaseURL: srv.URL}).Ping(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Internal Server Error")
}
