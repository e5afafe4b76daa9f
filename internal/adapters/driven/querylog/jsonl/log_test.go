package jsonl

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

func TestLog_AppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "queries.jsonl")
	log := New(path)
	ctx := context.Background()

	first := domain.QueryLogEntry{
		Timestamp:         time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Query:             "what is RAG?",
		Mode:              domain.QueryModeRAG,
		FileID:            "doc-1",
		UseRAG:            true,
		RetrievedChunkIDs: []string{"doc-1_chunk_0"},
		RetrievedPages:    []int{1},
		RetrievalScores:   []float64{0.8},
		Success:           true,
	}
	second := domain.QueryLogEntry{Query: "hi", Mode: domain.QueryModeGeneral, Success: true}

	require.NoError(t, log.Append(ctx, first))
	require.NoError(t, log.Append(ctx, second))

	entries, err := log.Read(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "what is RAG?", entries[0].Query)
	assert.Equal(t, []string{"doc-1_chunk_0"}, entries[0].RetrievedChunkIDs)
	assert.Equal(t, []int{1}, entries[0].RetrievedPages)
	assert.True(t, first.Timestamp.Equal(entries[0].Timestamp))
	assert.Equal(t, "hi", entries[1].Query)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(raw), "\n"))
}

func TestLog_ReadMissingFile(t *testing.T) {
	log := New(filepath.Join(t.TempDir(), "none.jsonl"))

	entries, err := log.Read(context.Background())

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLog_ReadSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.jsonl")
	content := `{"query":"a","success":true}` + "\n" +
		"not json\n" +
		"\n" +
		`{"query":"b","success":false}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	entries, err := New(path).Read(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Query)
	assert.False(t, entries[1].Success)
}

func TestLog_ConcurrentAppends(t *testing.T) {
	log := New(filepath.Join(t.TempDir(), "q.jsonl"))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, log.Append(ctx, domain.QueryLogEntry{Query: strings.Repeat("x", 1000), Success: true}))
		}()
	}
	wg.Wait()

	entries, err := log.Read(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 50)
}
