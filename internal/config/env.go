package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

// Recognised environment variables.
const (
	EnvEmbeddingProvider = "RAGBOT_EMBEDDING_PROVIDER"
	EnvEmbeddingModel    = "RAGBOT_EMBEDDING_MODEL"
	EnvLLMProvider       = "RAGBOT_LLM_PROVIDER"
	EnvLLMModel          = "RAGBOT_LLM_MODEL"
	EnvGeminiAPIKey      = "GEMINI_API_KEY"
	EnvOpenAIAPIKey      = "OPENAI_API_KEY"
	EnvAnthropicAPIKey   = "ANTHROPIC_API_KEY"
	EnvOllamaBaseURL     = "OLLAMA_BASE_URL"
	EnvChunkSize         = "CHUNK_SIZE"
	EnvChunkOverlap      = "CHUNK_OVERLAP"
	EnvThreshold         = "RAG_SIMILARITY_THRESHOLD"
	EnvTopK              = "RAG_TOP_K"
	EnvBroadTopK         = "RAG_BROAD_TOP_K"
	EnvHistoryTurns      = "RAG_HISTORY_TURNS"
	EnvEmbedBatchSize    = "EMBED_BATCH_SIZE"
	EnvEmbedRateLimit    = "EMBED_RATE_LIMIT"
	EnvVectorStore       = "RAGBOT_VECTOR_STORE"
	EnvDataDir           = "RAGBOT_DATA_DIR"
	EnvLogDir            = "RAGBOT_LOG_DIR"
	EnvLogFile           = "RAGBOT_LOG_FILE"
	EnvLogLevel          = "RAGBOT_LOG_LEVEL"
	EnvPromptDir         = "RAGBOT_PROMPT_DIR"
	EnvLanguage          = "RAGBOT_LANGUAGE"
	EnvHTTPAddr          = "RAGBOT_HTTP_ADDR"
)

type envBinding struct {
	key   string
	apply func(f *File, v string) error
}

func stringVar(dst func(f *File) *string) func(*File, string) error {
	return func(f *File, v string) error {
		*dst(f) = v
		return nil
	}
}

func intVar(key string, dst func(f *File) *int) func(*File, string) error {
	return func(f *File, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer, got %q", domain.ErrInvalidInput, key, v)
		}
		*dst(f) = n
		return nil
	}
}

func floatVar(key string, dst func(f *File) *float64) func(*File, string) error {
	return func(f *File, v string) error {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number, got %q", domain.ErrInvalidInput, key, v)
		}
		*dst(f) = n
		return nil
	}
}

var envBindings = []envBinding{
	{EnvEmbeddingProvider, stringVar(func(f *File) *string { return &f.Embedding.Provider })},
	{EnvEmbeddingModel, stringVar(func(f *File) *string { return &f.Embedding.Model })},
	{EnvLLMProvider, stringVar(func(f *File) *string { return &f.LLM.Provider })},
	{EnvLLMModel, stringVar(func(f *File) *string { return &f.LLM.Model })},
	{EnvChunkSize, intVar(EnvChunkSize, func(f *File) *int { return &f.Chunk.Size })},
	{EnvChunkOverlap, intVar(EnvChunkOverlap, func(f *File) *int { return &f.Chunk.Overlap })},
	{EnvThreshold, floatVar(EnvThreshold, func(f *File) *float64 { return &f.RAG.SimilarityThreshold })},
	{EnvTopK, intVar(EnvTopK, func(f *File) *int { return &f.RAG.TopK })},
	{EnvBroadTopK, intVar(EnvBroadTopK, func(f *File) *int { return &f.RAG.BroadTopK })},
	{EnvHistoryTurns, intVar(EnvHistoryTurns, func(f *File) *int { return &f.RAG.HistoryTurns })},
	{EnvEmbedBatchSize, intVar(EnvEmbedBatchSize, func(f *File) *int { return &f.Embedding.BatchSize })},
	{EnvEmbedRateLimit, floatVar(EnvEmbedRateLimit, func(f *File) *float64 { return &f.Embedding.RateLimit })},
	{EnvVectorStore, stringVar(func(f *File) *string { return &f.Storage.VectorStore })},
	{EnvDataDir, stringVar(func(f *File) *string { return &f.Storage.DataDir })},
	{EnvLogDir, stringVar(func(f *File) *string { return &f.Log.Dir })},
	{EnvLogFile, stringVar(func(f *File) *string { return &f.Log.File })},
	{EnvLogLevel, stringVar(func(f *File) *string { return &f.Log.Level })},
	{EnvPromptDir, stringVar(func(f *File) *string { return &f.Prompts.Dir })},
	{EnvLanguage, stringVar(func(f *File) *string { return &f.RAG.Language })},
	{EnvHTTPAddr, stringVar(func(f *File) *string { return &f.Server.Addr })},
}

// applyEnv overlays set, non-blank variables onto f.
func applyEnv(f *File, lookup func(string) (string, bool)) error {
	for _, b := range envBindings {
		v, ok := lookup(b.key)
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if err := b.apply(f, v); err != nil {
			return err
		}
	}
	return nil
}
