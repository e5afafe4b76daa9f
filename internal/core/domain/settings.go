package domain

import "fmt"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the provider API key.
	APIKey string

	// BatchSize is the provider's maximum texts per request.
	BatchSize int

	// RateLimit caps provider requests per second. Zero disables limiting.
	RateLimit float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the provider API key.
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkSettings configures the chunker.
type ChunkSettings struct {
	Size    int
	Overlap int
}

// RAGSettings configures query routing.
type RAGSettings struct {
	// SimilarityThreshold is the confidence gate for freeform queries.
	SimilarityThreshold float64

	// TopK is the retrieval depth for freeform queries.
	TopK int

	// BroadTopK is the retrieval depth for summarize and quiz queries.
	BroadTopK int

	// HistoryTurns is how many prior turns are rendered into prompts.
	HistoryTurns int

	// Language selects the default prompt set ("en" or "id").
	Language string
}

// VectorStoreKind selects the vector store backend.
type VectorStoreKind string

// Vector store backends.
const (
	VectorStoreSQLite VectorStoreKind = "sqlite"
	VectorStoreMemory VectorStoreKind = "memory"
)

// StorageSettings configures persistence.
type StorageSettings struct {
	VectorStore VectorStoreKind

	// DataDir is the vector store location.
	DataDir string
}

// LogSettings configures the query log and process logger.
type LogSettings struct {
	// Dir is the log directory.
	Dir string

	// File is the query log path. Relative paths resolve against Dir.
	File string

	// Level is the process log level (debug, info, warn, error).
	Level string
}

// ServerSettings configures the HTTP surface.
type ServerSettings struct {
	Addr string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Chunk     ChunkSettings
	RAG       RAGSettings
	Storage   StorageSettings
	Log       LogSettings
	Server    ServerSettings

	// PromptDir holds user-editable prompt templates.
	PromptDir string
}

// Default settings values.
const (
	DefaultChunkSize           = 500
	DefaultChunkOverlap        = 100
	DefaultSimilarityThreshold = 0.35
	DefaultTopK                = 4
	DefaultBroadTopK           = 20
	DefaultHistoryTurns        = 10
	DefaultEmbedBatchSize      = 100
)

// DefaultAppSettings returns settings with sensible defaults.
// API keys are left empty; providers are unusable until one is supplied.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:  AIProviderGemini,
			Model:     DefaultEmbeddingModels()[AIProviderGemini],
			BatchSize: DefaultEmbedBatchSize,
		},
		LLM: LLMSettings{
			Provider: AIProviderGemini,
			Model:    DefaultLLMModels()[AIProviderGemini],
		},
		Chunk: ChunkSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		RAG: RAGSettings{
			SimilarityThreshold: DefaultSimilarityThreshold,
			TopK:                DefaultTopK,
			BroadTopK:           DefaultBroadTopK,
			HistoryTurns:        DefaultHistoryTurns,
			Language:            "en",
		},
		Storage: StorageSettings{
			VectorStore: VectorStoreSQLite,
			DataDir:     "data",
		},
		Log: LogSettings{
			Dir:   "logs",
			File:  "queries.jsonl",
			Level: "info",
		},
		Server: ServerSettings{
			Addr: ":8000",
		},
	}
}

// Validate checks settings for values the pipeline cannot run with.
func (s AppSettings) Validate() error {
	if s.Chunk.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidInput, s.Chunk.Size)
	}
	if s.Chunk.Overlap < 0 {
		return fmt.Errorf("%w: chunk overlap must not be negative, got %d", ErrInvalidInput, s.Chunk.Overlap)
	}
	if s.RAG.SimilarityThreshold < 0 || s.RAG.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity threshold must be within [0, 1], got %v",
			ErrInvalidInput, s.RAG.SimilarityThreshold)
	}
	if s.RAG.TopK <= 0 || s.RAG.BroadTopK <= 0 {
		return fmt.Errorf("%w: top_k values must be positive", ErrInvalidInput)
	}
	if s.Embedding.BatchSize <= 0 {
		return fmt.Errorf("%w: embedding batch size must be positive, got %d", ErrInvalidInput, s.Embedding.BatchSize)
	}
	switch s.Storage.VectorStore {
	case VectorStoreSQLite, VectorStoreMemory:
	default:
		return fmt.Errorf("%w: unknown vector store %q", ErrInvalidInput, s.Storage.VectorStore)
	}
	return nil
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "gemini-embedding-001",
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini:    "gemini-2.5-flash",
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Gemini models
		"gemini-embedding-001": 3072,
		"text-embedding-004":   768,
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
