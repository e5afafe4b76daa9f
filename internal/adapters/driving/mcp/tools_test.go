package mcp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns grounded answer with sources", func(t *testing.T) {
		query := &mockQueryService{resp: &domain.QueryResponse{
			Answer:    "RAG combines retrieval and generation.",
			Sources:   []domain.Source{{File: "paper.pdf", Page: 3}},
			FileID:    "doc-1a2b3c4d",
			RequestID: "req-1",
		}}
		server, err := NewServer(&Ports{Query: query})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{
			Query:  "what is RAG?",
			FileID: "doc-1a2b3c4d",
			UseRAG: true,
			Type:   "summarize",
		})

		require.NoError(t, err)
		assert.Equal(t, "RAG combines retrieval and generation.", output.Answer)
		assert.Equal(t, []SourceOutput{{File: "paper.pdf", Page: 3}}, output.Sources)
		assert.Equal(t, "req-1", output.RequestID)
		assert.Equal(t, domain.QueryTypeSummarize, query.lastReq.Type)
		assert.True(t, query.lastReq.UseRAG)
		assert.Equal(t, "doc-1a2b3c4d", query.lastReq.FileID)
	})

	t.Run("empty type defaults to freeform", func(t *testing.T) {
		query := &mockQueryService{resp: &domain.QueryResponse{Answer: "hi"}}
		server, err := NewServer(&Ports{Query: query})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Query: "hello"})

		require.NoError(t, err)
		assert.Equal(t, domain.QueryTypeFreeform, query.lastReq.Type)
		assert.Empty(t, output.Sources)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Query: "q", Type: "essay"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("propagates service errors", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{err: errors.New("boom")}})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Query: "q"})

		assert.EqualError(t, err, "boom")
	})
}

func TestServer_handleIngestFile(t *testing.T) {
	ctx := context.Background()

	t.Run("ingests file by base name", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0600))
		ingest := &mockIngestService{result: &domain.IngestionResult{
			FileID:             "doc-00ff00ff",
			Filename:           "notes.pdf",
			PageCount:          2,
			ChunksIndexed:      5,
			Type:               domain.FileTypePDF,
			RecommendedActions: []string{"summarize", "quiz"},
		}}
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Ingest: ingest})
		require.NoError(t, err)

		_, output, err := server.handleIngestFile(ctx, nil, IngestFileInput{Path: path})

		require.NoError(t, err)
		assert.Equal(t, "notes.pdf", ingest.filename)
		assert.Equal(t, []byte("%PDF-1.4"), ingest.content)
		assert.Equal(t, "doc-00ff00ff", output.FileID)
		assert.Equal(t, 2, output.Pages)
		assert.Equal(t, 5, output.ChunksIndexed)
		assert.Equal(t, "pdf", output.Type)
		assert.Equal(t, []string{"summarize", "quiz"}, output.RecommendedActions)
	})

	t.Run("without ingest port", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}})
		require.NoError(t, err)

		_, _, err = server.handleIngestFile(ctx, nil, IngestFileInput{Path: "x.pdf"})

		assert.ErrorIs(t, err, ErrIngestDisabled)
	})

	t.Run("empty path", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Ingest: &mockIngestService{}})
		require.NoError(t, err)

		_, _, err = server.handleIngestFile(ctx, nil, IngestFileInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing file", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Ingest: &mockIngestService{}})
		require.NoError(t, err)

		_, _, err = server.handleIngestFile(ctx, nil, IngestFileInput{Path: filepath.Join(t.TempDir(), "gone.pdf")})

		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("ingestion failure", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scan.png")
		require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0600))
		ingest := &mockIngestService{err: domain.ErrIngestion}
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Ingest: ingest})
		require.NoError(t, err)

		_, _, err = server.handleIngestFile(ctx, nil, IngestFileInput{Path: path})

		assert.ErrorIs(t, err, domain.ErrIngestion)
	})
}
