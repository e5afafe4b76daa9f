package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Otachiking/Chatbot-RAG/internal/chunker"
	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driving"
	"github.com/Otachiking/Chatbot-RAG/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// fileIDPrefix marks generated document identifiers.
const fileIDPrefix = "doc-"

// IngestService is the ingestion pipeline: extract, chunk, embed, index.
type IngestService struct {
	extractor driven.TextExtractor
	chunker   *chunker.Processor
	embedder  *BatchEmbedder
	store     driven.VectorStore
	docs      driven.DocumentStore
	observer  driven.Observer
	newFileID func() string
	now       func() time.Time
}

// NewIngestService creates the ingestion pipeline.
func NewIngestService(
	extractor driven.TextExtractor,
	chunks *chunker.Processor,
	embedder *BatchEmbedder,
	store driven.VectorStore,
) *IngestService {
	if chunks == nil {
		chunks = chunker.New()
	}
	return &IngestService{
		extractor: extractor,
		chunker:   chunks,
		embedder:  embedder,
		store:     store,
		newFileID: NewFileID,
		now:       time.Now,
	}
}

// SetDocumentStore records ingested documents in store.
func (s *IngestService) SetDocumentStore(store driven.DocumentStore) {
	s.docs = store
}

// SetObserver reports ingestion outcomes to o.
func (s *IngestService) SetObserver(o driven.Observer) {
	s.observer = o
}

// NewFileID returns "doc-" followed by 8 random hex digits (32 bits).
func NewFileID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fileIDPrefix + id[:8]
}

// Ingest extracts, chunks, embeds and indexes one file.
// Extraction problems degrade individual pages; embedding and indexing
// failures are returned wrapped in domain.ErrIngestion.
func (s *IngestService) Ingest(ctx context.Context, filename string, content []byte) (*domain.IngestionResult, error) {
	started := s.now()
	fileType := domain.DetectFileType(filename)
	fileID := s.newFileID()

	logger.Section("Ingestion")
	logger.Info("Ingesting %q as %s (file_id=%s, %d bytes)", filename, fileType, fileID, len(content))

	pages, degraded := s.extractPages(ctx, filename, content, fileType)
	chunks := s.chunkPages(fileID, filename, pages)
	logger.Debug("Extracted %d pages into %d chunks", len(pages), len(chunks))

	if err := s.index(ctx, chunks); err != nil {
		logger.Error("Ingestion of %s failed: %v", fileID, err)
		s.observe(fileType, 0, started, err)
		return nil, err
	}

	doc := &domain.Document{
		FileID:     fileID,
		Filename:   filename,
		Type:       fileType,
		PageCount:  len(pages),
		ChunkCount: len(chunks),
		CreatedAt:  started.UTC(),
	}
	if s.docs != nil {
		if err := s.docs.SaveDocument(ctx, doc); err != nil {
			logger.Warn("Failed to record document %s: %v", fileID, err)
		}
	}

	s.observe(fileType, len(chunks), started, nil)
	logger.Info("Indexed %d chunks for %s", len(chunks), fileID)

	return &domain.IngestionResult{
		FileID:             fileID,
		Filename:           filename,
		PageCount:          len(pages),
		ChunksIndexed:      len(chunks),
		Type:               fileType,
		RecommendedActions: domain.RecommendedActions(),
		DegradedPages:      degraded,
	}, nil
}

// extractPages returns the pages to chunk and the numbers of degraded pages.
func (s *IngestService) extractPages(
	ctx context.Context, filename string, content []byte, fileType domain.FileType,
) ([]domain.Page, []int) {
	if fileType == domain.FileTypeUnknown {
		ext := strings.ToLower(filepath.Ext(filename))
		return []domain.Page{{Number: 1, Text: "Unsupported file type: " + ext}}, nil
	}

	var results []domain.PageResult
	if s.extractor == nil {
		results = []domain.PageResult{domain.PageErr(1, domain.ErrExtractionUnavailable)}
	} else {
		var err error
		results, err = s.extractor.Extract(ctx, content, fileType)
		if err != nil {
			results = []domain.PageResult{domain.PageErr(1, err)}
		}
	}

	pages := make([]domain.Page, 0, len(results))
	var degraded []int
	for _, r := range results {
		if !r.OK() {
			logger.Warn("Extraction failed for page %d of %q: %v", r.Page.Number, filename, r.Err)
			degraded = append(degraded, r.Page.Number)
			pages = append(pages, domain.Page{
				Number: r.Page.Number,
				Text:   fmt.Sprintf("[Text extraction failed for page %d]", r.Page.Number),
			})
			continue
		}
		if strings.TrimSpace(r.Page.Text) == "" {
			continue
		}
		pages = append(pages, r.Page)
	}

	return pages, degraded
}

// chunkPages splits every page and numbers chunks with one running index.
func (s *IngestService) chunkPages(fileID, filename string, pages []domain.Page) []domain.Chunk {
	var chunks []domain.Chunk
	for _, page := range pages {
		for _, text := range s.chunker.Split(page.Text) {
			chunks = append(chunks, domain.Chunk{
				Key:        domain.ChunkKey{FileID: fileID, Index: len(chunks)},
				Text:       text,
				Filename:   filename,
				PageNumber: page.Number,
			})
		}
	}
	return chunks
}

// index embeds chunks in order and upserts them in one store call.
func (s *IngestService) index(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		logger.Debug("No chunks to index, skipping vector store")
		return nil
	}
	if s.embedder == nil {
		return fmt.Errorf("%w: %w", domain.ErrIngestion, domain.ErrEmbeddingUnavailable)
	}
	if s.store == nil {
		return fmt.Errorf("%w: %w", domain.ErrIngestion, domain.ErrVectorStoreUnavailable)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: embed chunks: %w", domain.ErrIngestion, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: %w: %d chunks, %d vectors",
			domain.ErrIngestion, domain.ErrDimensionMismatch, len(chunks), len(vectors))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	if err := s.store.Upsert(ctx, chunks); err != nil {
		return fmt.Errorf("%w: index chunks: %w", domain.ErrIngestion, err)
	}
	return nil
}

func (s *IngestService) observe(fileType domain.FileType, chunks int, started time.Time, err error) {
	if s.observer == nil {
		return
	}
	s.observer.IngestionCompleted(fileType, chunks, s.now().Sub(started), err)
}
