package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
)

func chunk(fileID string, index int, text string, emb ...float32) domain.Chunk {
	return domain.Chunk{
		Key:        domain.ChunkKey{FileID: fileID, Index: index},
		Text:       text,
		PageNumber: index + 1,
		Embedding:  emb,
	}
}

func TestStore_UpsertAndQuery(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []domain.Chunk{
		chunk("doc-a", 0, "x", 1, 0),
		chunk("doc-a", 1, "y", 0, 1),
		chunk("doc-b", 0, "z", 1, 0.1),
	}))

	tests := []struct {
		name    string
		query   driven.VectorQuery
		wantIDs []string
	}{
		{
			name:    "all files",
			query:   driven.VectorQuery{Embedding: []float32{1, 0}, TopK: 2},
			wantIDs: []string{"doc-a_chunk_0", "doc-b_chunk_0"},
		},
		{
			name:    "filtered",
			query:   driven.VectorQuery{Embedding: []float32{1, 0}, TopK: 5, FileID: "doc-a"},
			wantIDs: []string{"doc-a_chunk_0", "doc-a_chunk_1"},
		},
		{
			name:    "unknown file",
			query:   driven.VectorQuery{Embedding: []float32{1, 0}, TopK: 5, FileID: "doc-z"},
			wantIDs: nil,
		},
		{
			name:    "zero top k",
			query:   driven.VectorQuery{Embedding: []float32{1, 0}, TopK: 0},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := s.Query(ctx, tt.query)
			require.NoError(t, err)

			var ids []string
			for _, m := range matches {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestStore_UpsertRejectsMissingEmbedding(t *testing.T) {
	s := NewStore()

	err := s.Upsert(context.Background(), []domain.Chunk{chunk("doc-a", 0, "ok", 1), chunk("doc-a", 1, "bad")})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, s.Len())
}

func TestStore_UpsertCopiesEmbedding(t *testing.T) {
	s := NewStore()
	emb := []float32{1, 0}

	require.NoError(t, s.Upsert(context.Background(), []domain.Chunk{chunk("doc-a", 0, "x", emb...)}))
	emb[0] = -1

	matches, err := s.Query(context.Background(), driven.VectorQuery{Embedding: []float32{1, 0}, TopK: 1})
	require.NoError(t, err)
	assert.InDelta(t, 0, matches[0].Distance, 1e-9)
}

func TestStore_Documents(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveDocument(ctx, &domain.Document{FileID: "doc-1", CreatedAt: base}))
	require.NoError(t, s.SaveDocument(ctx, &domain.Document{FileID: "doc-2", CreatedAt: base.Add(time.Minute)}))

	doc, err := s.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.FileID)

	_, err = s.GetDocument(ctx, "doc-3")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	docs, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-2", docs[0].FileID)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Upsert(ctx, []domain.Chunk{chunk("doc-c", i, "t", 1, float32(i))})
			_, _ = s.Query(ctx, driven.VectorQuery{Embedding: []float32{1, 0}, TopK: 3})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, s.Len())
}
