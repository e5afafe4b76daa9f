package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func testChunk(fileID string, index, page int, text string, emb ...float32) domain.Chunk {
	return domain.Chunk{
		Key:        domain.ChunkKey{FileID: fileID, Index: index},
		Text:       text,
		Filename:   fileID + ".pdf",
		PageNumber: page,
		Embedding:  emb,
	}
}

// ==================== Store Creation ====================

func TestNewStore_RequiresDir(t *testing.T) {
	_, err := NewStore("")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewStore_RunsMigrationsOnce(t *testing.T) {
	dir := t.TempDir()

	s1, err := NewStore(dir)
	require.NoError(t, err)
	var version int
	require.NoError(t, s1.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
	require.NoError(t, s1.Close())

	s2, err := NewStore(dir)
	require.NoError(t, err)
	defer s2.Close()

	var count int
	require.NoError(t, s2.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

// ==================== Vector Store ====================

func TestUpsertAndQuery_NearestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []domain.Chunk{
		testChunk("doc-a", 0, 1, "north", 0, 1),
		testChunk("doc-a", 1, 1, "east", 1, 0),
		testChunk("doc-a", 2, 2, "north-east", 1, 1),
	}))

	matches, err := store.Query(ctx, driven.VectorQuery{Embedding: []float32{1, 0}, TopK: 2})

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "doc-a_chunk_1", matches[0].ID)
	assert.Equal(t, "east", matches[0].Chunk.Text)
	assert.Equal(t, 1, matches[0].Chunk.PageNumber)
	assert.Equal(t, "doc-a.pdf", matches[0].Chunk.Filename)
	assert.InDelta(t, 0, matches[0].Distance, 1e-6)
	assert.Equal(t, "doc-a_chunk_2", matches[1].ID)
	assert.Equal(t, 2, matches[1].Chunk.PageNumber)
}

func TestQuery_FiltersByFileID(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []domain.Chunk{
		testChunk("doc-a", 0, 1, "a", 1, 0),
		testChunk("doc-b", 0, 1, "b", 1, 0),
		testChunk("doc-b", 1, 3, "b2", 0, 1),
	}))

	matches, err := store.Query(ctx, driven.VectorQuery{Embedding: []float32{1, 0}, TopK: 10, FileID: "doc-b"})

	require.NoError(t, err)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.Equal(t, "doc-b", m.Chunk.Key.FileID)
	}
}

func TestQuery_EmptyStore(t *testing.T) {
	store := setupTestStore(t)

	matches, err := store.Query(context.Background(), driven.VectorQuery{Embedding: []float32{1}, TopK: 4})

	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestQuery_SkipsOtherDimensions(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []domain.Chunk{
		testChunk("doc-a", 0, 1, "old model", 1, 0, 0),
		testChunk("doc-a", 1, 1, "new model", 1, 0),
	}))

	matches, err := store.Query(ctx, driven.VectorQuery{Embedding: []float32{1, 0}, TopK: 4})

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "new model", matches[0].Chunk.Text)
}

func TestUpsert_ReplacesSameKey(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []domain.Chunk{testChunk("doc-a", 0, 1, "first", 1, 0)}))
	require.NoError(t, store.Upsert(ctx, []domain.Chunk{testChunk("doc-a", 0, 1, "second", 1, 0)}))

	n, err := store.CountChunks(ctx, "doc-a")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	matches, err := store.Query(ctx, driven.VectorQuery{Embedding: []float32{1, 0}, TopK: 1})
	require.NoError(t, err)
	assert.Equal(t, "second", matches[0].Chunk.Text)
}

func TestUpsert_RejectsMissingEmbedding(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.Upsert(ctx, []domain.Chunk{
		testChunk("doc-a", 0, 1, "ok", 1, 0),
		testChunk("doc-a", 1, 1, "no vector"),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	n, err := store.CountChunks(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, n, "failed upsert must not leave partial rows")
}

func TestUpsert_Empty(t *testing.T) {
	store := setupTestStore(t)

	assert.NoError(t, store.Upsert(context.Background(), nil))
}

func TestEmbeddingRoundTrip(t *testing.T) {
	in := []float32{0.25, -1.5, 3.125}

	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}

// ==================== Document Store ====================

func TestDocuments_SaveGetList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	older := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{
		FileID: "doc-old", Filename: "old.pdf", Type: domain.FileTypePDF, PageCount: 2, ChunkCount: 5, CreatedAt: older,
	}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{
		FileID: "doc-new", Filename: "scan.png", Type: domain.FileTypeImage, PageCount: 1, ChunkCount: 1, CreatedAt: newer,
	}))

	got, err := store.GetDocument(ctx, "doc-old")
	require.NoError(t, err)
	assert.Equal(t, "old.pdf", got.Filename)
	assert.Equal(t, domain.FileTypePDF, got.Type)
	assert.Equal(t, 2, got.PageCount)
	assert.Equal(t, 5, got.ChunkCount)
	assert.True(t, older.Equal(got.CreatedAt), "created_at %v", got.CreatedAt)

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-new", docs[0].FileID)
	assert.Equal(t, "doc-old", docs[1].FileID)
}

func TestGetDocument_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetDocument(context.Background(), "doc-missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListDocuments_Empty(t *testing.T) {
	store := setupTestStore(t)

	docs, err := store.ListDocuments(context.Background())

	require.NoError(t, err)
	assert.Empty(t, docs)
}
