package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Otachiking/Chatbot-RAG/internal/adapters/driven/ai"
	"github.com/Otachiking/Chatbot-RAG/internal/adapters/driven/config/file"
	"github.com/Otachiking/Chatbot-RAG/internal/adapters/driven/extract"
	"github.com/Otachiking/Chatbot-RAG/internal/adapters/driven/querylog/jsonl"
	"github.com/Otachiking/Chatbot-RAG/internal/adapters/driven/vectorstore/memory"
	"github.com/Otachiking/Chatbot-RAG/internal/adapters/driven/vectorstore/sqlite"
	"github.com/Otachiking/Chatbot-RAG/internal/adapters/driving/cli"
	"github.com/Otachiking/Chatbot-RAG/internal/chunker"
	"github.com/Otachiking/Chatbot-RAG/internal/config"
	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
	"github.com/Otachiking/Chatbot-RAG/internal/core/services"
	"github.com/Otachiking/Chatbot-RAG/internal/logger"
	"github.com/Otachiking/Chatbot-RAG/internal/metrics"
)

// store is a vector store that also tracks ingested documents.
type store interface {
	driven.VectorStore
	driven.DocumentStore
}

// build wires the pipeline from resolved settings.
func build(ctx context.Context, settings *domain.AppSettings) (*cli.Services, error) {
	prompts, err := file.NewPromptStore(settings.PromptDir, settings.RAG.Language)
	if err != nil {
		return nil, fmt.Errorf("loading prompts: %w", err)
	}

	vectors, err := openStore(settings.Storage)
	if err != nil {
		return nil, err
	}

	// Missing providers are not fatal: the affected steps fail at call time
	// and queries fall back to general answers.
	embedding, err := ai.CreateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		logger.Warn("Embedding service unavailable: %v", err)
		embedding = nil
	}
	llm, err := ai.CreateLLMService(ctx, &settings.LLM)
	if err != nil {
		logger.Warn("LLM service unavailable: %v", err)
		llm = nil
	}

	observer := metrics.New(true)
	queryLog := jsonl.New(config.QueryLogPath(settings.Log))

	embedder := services.NewBatchEmbedder(embedding, settings.Embedding.BatchSize)
	if settings.Embedding.RateLimit > 0 {
		embedder.SetRateLimiter(services.NewRateLimiter(services.RateLimitConfig{
			RequestsPerSecond: settings.Embedding.RateLimit,
		}))
	}

	chunks := chunker.New(
		chunker.WithChunkSize(settings.Chunk.Size),
		chunker.WithOverlap(settings.Chunk.Overlap),
	)

	ingest := services.NewIngestService(extract.New(), chunks, embedder, vectors)
	ingest.SetDocumentStore(vectors)
	ingest.SetObserver(observer)

	router := services.NewQueryRouter(
		services.NewRetriever(embedder, vectors),
		services.NewAnswerGenerator(llm, prompts),
		prompts,
		queryLog,
		services.RouterConfig{
			SimilarityThreshold: settings.RAG.SimilarityThreshold,
			TopK:                settings.RAG.TopK,
			BroadTopK:           settings.RAG.BroadTopK,
			HistoryTurns:        settings.RAG.HistoryTurns,
		},
	)
	router.SetDocumentStore(vectors)
	router.SetObserver(observer)

	return &cli.Services{
		Ingest:    ingest,
		Query:     router,
		Documents: services.NewDocumentService(vectors),
		Report:    services.NewReportService(queryLog),
		Metrics:   observer.Handler(),
		Background: func(ctx context.Context) {
			watchPrompts(ctx, prompts)
		},
		Close: func() error {
			var errs []error
			if embedding != nil {
				errs = append(errs, embedding.Close())
			}
			if llm != nil {
				errs = append(errs, llm.Close())
			}
			errs = append(errs, vectors.Close())
			return errors.Join(errs...)
		},
	}, nil
}

func openStore(cfg domain.StorageSettings) (store, error) {
	switch cfg.VectorStore {
	case domain.VectorStoreMemory:
		return memory.NewStore(), nil
	default:
		s, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening vector store: %w", err)
		}
		return s, nil
	}
}

// watchPrompts reloads templates when files in the prompt directory change.
func watchPrompts(ctx context.Context, prompts *file.PromptStore) {
	watcher, err := file.NewPromptWatcher(prompts, prompts.Dir())
	if err != nil {
		logger.Warn("Prompt hot-reload disabled: %v", err)
		return
	}
	go func() {
		<-ctx.Done()
		_ = watcher.Close()
	}()
	watcher.Run(ctx)
}
