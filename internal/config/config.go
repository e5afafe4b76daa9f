// Package config loads application settings from a TOML file, a .env file
// and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

// Default file names, resolved against the working directory.
const (
	DefaultConfigFile = "ragbot.toml"
	DefaultEnvFile    = ".env"
)

// Options controls where settings are read from.
type Options struct {
	// ConfigFile is an explicit TOML path. When set the file must exist.
	// When empty, DefaultConfigFile is read if present.
	ConfigFile string

	// EnvFile is the dotenv path. Defaults to DefaultEnvFile; a missing
	// file is ignored.
	EnvFile string

	// LookupEnv reads the environment. Defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

// File is the TOML layout of ragbot.toml.
type File struct {
	Embedding EmbeddingFile `toml:"embedding"`
	LLM       LLMFile       `toml:"llm"`
	Chunk     ChunkFile     `toml:"chunk"`
	RAG       RAGFile       `toml:"rag"`
	Storage   StorageFile   `toml:"storage"`
	Log       LogFile       `toml:"log"`
	Server    ServerFile    `toml:"server"`
	Prompts   PromptsFile   `toml:"prompts"`
}

// EmbeddingFile is the [embedding] table.
type EmbeddingFile struct {
	Provider  string  `toml:"provider"`
	Model     string  `toml:"model"`
	BaseURL   string  `toml:"base_url"`
	APIKey    string  `toml:"api_key"`
	BatchSize int     `toml:"batch_size"`
	RateLimit float64 `toml:"rate_limit"`
}

// LLMFile is the [llm] table.
type LLMFile struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
}

// ChunkFile is the [chunk] table.
type ChunkFile struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// RAGFile is the [rag] table.
type RAGFile struct {
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	TopK                int     `toml:"top_k"`
	BroadTopK           int     `toml:"broad_top_k"`
	HistoryTurns        int     `toml:"history_turns"`
	Language            string  `toml:"language"`
}

// StorageFile is the [storage] table.
type StorageFile struct {
	VectorStore string `toml:"vector_store"`
	DataDir     string `toml:"data_dir"`
}

// LogFile is the [log] table.
type LogFile struct {
	Dir   string `toml:"dir"`
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// ServerFile is the [server] table.
type ServerFile struct {
	Addr string `toml:"addr"`
}

// PromptsFile is the [prompts] table.
type PromptsFile struct {
	Dir string `toml:"dir"`
}

// Load resolves settings: defaults, then the TOML file, then .env, then the
// environment. The result is validated.
func Load(opts Options) (*domain.AppSettings, error) {
	file := defaultFile()

	if err := readTOML(opts.ConfigFile, &file); err != nil {
		return nil, err
	}

	lookup, err := envLookup(opts)
	if err != nil {
		return nil, err
	}
	if err := applyEnv(&file, lookup); err != nil {
		return nil, err
	}

	settings := file.settings()
	resolveProviders(&settings, lookup)

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// QueryLogPath returns the query log location. A relative file resolves
// against the log directory.
func QueryLogPath(l domain.LogSettings) string {
	file := l.File
	if file == "" {
		file = "queries.jsonl"
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(l.Dir, file)
}

func defaultFile() File {
	d := domain.DefaultAppSettings()
	return File{
		Embedding: EmbeddingFile{
			Provider:  string(d.Embedding.Provider),
			BatchSize: d.Embedding.BatchSize,
		},
		LLM: LLMFile{
			Provider: string(d.LLM.Provider),
		},
		Chunk: ChunkFile{Size: d.Chunk.Size, Overlap: d.Chunk.Overlap},
		RAG: RAGFile{
			SimilarityThreshold: d.RAG.SimilarityThreshold,
			TopK:                d.RAG.TopK,
			BroadTopK:           d.RAG.BroadTopK,
			HistoryTurns:        d.RAG.HistoryTurns,
			Language:            d.RAG.Language,
		},
		Storage: StorageFile{
			VectorStore: string(d.Storage.VectorStore),
			DataDir:     d.Storage.DataDir,
		},
		Log: LogFile{
			Dir:   d.Log.Dir,
			File:  d.Log.File,
			Level: d.Log.Level,
		},
		Server: ServerFile{Addr: d.Server.Addr},
	}
}

// readTOML decodes path over cfg. Keys absent from the file keep their
// current values.
func readTOML(path string, cfg *File) error {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: parse config %s: %v", domain.ErrInvalidInput, path, err)
	}
	return nil
}

// envLookup layers the process environment over the dotenv file. The
// process environment is never modified.
func envLookup(opts Options) (func(string) (string, bool), error) {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read env file %s: %w", envFile, err)
		}
		dotenv = nil
	}

	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

func (f File) settings() domain.AppSettings {
	return domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:  domain.AIProvider(strings.ToLower(f.Embedding.Provider)),
			Model:     f.Embedding.Model,
			BaseURL:   f.Embedding.BaseURL,
			APIKey:    f.Embedding.APIKey,
			BatchSize: f.Embedding.BatchSize,
			RateLimit: f.Embedding.RateLimit,
		},
		LLM: domain.LLMSettings{
			Provider: domain.AIProvider(strings.ToLower(f.LLM.Provider)),
			Model:    f.LLM.Model,
			BaseURL:  f.LLM.BaseURL,
			APIKey:   f.LLM.APIKey,
		},
		Chunk: domain.ChunkSettings{Size: f.Chunk.Size, Overlap: f.Chunk.Overlap},
		RAG: domain.RAGSettings{
			SimilarityThreshold: f.RAG.SimilarityThreshold,
			TopK:                f.RAG.TopK,
			BroadTopK:           f.RAG.BroadTopK,
			HistoryTurns:        f.RAG.HistoryTurns,
			Language:            strings.ToLower(f.RAG.Language),
		},
		Storage: domain.StorageSettings{
			VectorStore: domain.VectorStoreKind(strings.ToLower(f.Storage.VectorStore)),
			DataDir:     f.Storage.DataDir,
		},
		Log: domain.LogSettings{
			Dir:   f.Log.Dir,
			File:  f.Log.File,
			Level: strings.ToLower(f.Log.Level),
		},
		Server:    domain.ServerSettings{Addr: f.Server.Addr},
		PromptDir: f.Prompts.Dir,
	}
}

// resolveProviders fills provider-specific API keys, Ollama endpoints and
// default models once the providers are known.
func resolveProviders(s *domain.AppSettings, lookup func(string) (string, bool)) {
	if s.Embedding.APIKey == "" {
		s.Embedding.APIKey = providerAPIKey(s.Embedding.Provider, lookup)
	}
	if s.LLM.APIKey == "" {
		s.LLM.APIKey = providerAPIKey(s.LLM.Provider, lookup)
	}

	if url, ok := lookup(EnvOllamaBaseURL); ok && url != "" {
		if s.Embedding.Provider == domain.AIProviderOllama && s.Embedding.BaseURL == "" {
			s.Embedding.BaseURL = url
		}
		if s.LLM.Provider == domain.AIProviderOllama && s.LLM.BaseURL == "" {
			s.LLM.BaseURL = url
		}
	}

	if s.Embedding.Model == "" {
		s.Embedding.Model = domain.DefaultEmbeddingModels()[s.Embedding.Provider]
	}
	if s.LLM.Model == "" {
		s.LLM.Model = domain.DefaultLLMModels()[s.LLM.Provider]
	}
}

func providerAPIKey(p domain.AIProvider, lookup func(string) (string, bool)) string {
	var key string
	switch p {
	case domain.AIProviderGemini:
		key = EnvGeminiAPIKey
	case domain.AIProviderOpenAI:
		key = EnvOpenAIAPIKey
	case domain.AIProviderAnthropic:
		key = EnvAnthropicAPIKey
	default:
		return ""
	}
	v, _ := lookup(key)
	return strings.TrimSpace(v)
}
