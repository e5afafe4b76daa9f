package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
)

// mockEmbeddingService returns a 3-dimensional vector derived from each text.
type mockEmbeddingService struct {
	embedCalls int
	batchSizes []int
	err        error
	// shortBy drops this many vectors from every batch response.
	shortBy int
	// rateLimited fails this many batch calls with domain.ErrRateLimited.
	rateLimited int
	// retryDelay is the wait each rate limited response asks for.
	retryDelay time.Duration
}

type retryDelayErr struct{ delay time.Duration }

func (e retryDelayErr) Error() string { return "429 too many requests" }
func (e retryDelayErr) Unwrap() error { return domain.ErrRateLimited }
func (e retryDelayErr) RetryDelay() time.Duration { return e.delay }

func vectorFor(text string) []float32 {
	return []float32{float32(len(text)), 1, 0}
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls++
	if m.err != nil {
		return nil, m.err
	}
	return vectorFor(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchSizes = append(m.batchSizes, len(texts))
	if m.rateLimited > 0 {
		m.rateLimited--
		if m.retryDelay > 0 {
			return nil, retryDelayErr{delay: m.retryDelay}
		}
		return nil, fmt.Errorf("429: %w", domain.ErrRateLimited)
	}
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts[:len(texts)-m.shortBy] {
		out = append(out, vectorFor(t))
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int              { return 3 }
func (m *mockEmbeddingService) ModelName() string            { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockVectorStore records upserts and replays configured matches.
type mockVectorStore struct {
	upsertCalls int
	upserted    []domain.Chunk
	upsertErr   error

	matches  []driven.VectorMatch
	queryErr error
	queries  []driven.VectorQuery
}

func (m *mockVectorStore) Upsert(_ context.Context, chunks []domain.Chunk) error {
	m.upsertCalls++
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, chunks...)
	return nil
}

func (m *mockVectorStore) Query(_ context.Context, q driven.VectorQuery) ([]driven.VectorMatch, error) {
	m.queries = append(m.queries, q)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if len(m.matches) > q.TopK {
		return m.matches[:q.TopK], nil
	}
	return m.matches, nil
}

func (m *mockVectorStore) Close() error { return nil }

// mockExtractor returns fixed page results.
type mockExtractor struct {
	results []domain.PageResult
	err     error
	calls   int
}

func (m *mockExtractor) Extract(_ context.Context, _ []byte, _ domain.FileType) ([]domain.PageResult, error) {
	m.calls++
	return m.results, m.err
}

// mockDocStore is an in-memory document registry.
type mockDocStore struct {
	docs    map[string]domain.Document
	saveErr error
}

func newMockDocStore() *mockDocStore {
	return &mockDocStore{docs: make(map[string]domain.Document)}
}

func (m *mockDocStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[doc.FileID] = *doc
	return nil
}

func (m *mockDocStore) GetDocument(_ context.Context, fileID string) (*domain.Document, error) {
	doc, ok := m.docs[fileID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (m *mockDocStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, d)
	}
	return out, nil
}

// mockLLMService records chat calls and replays responses in order.
type mockLLMService struct {
	responses []string
	errs      []error
	calls     [][]driven.ChatMessage
}

func (m *mockLLMService) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return "", errors.New("not used")
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	i := len(m.calls)
	m.calls = append(m.calls, messages)
	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if i < len(m.responses) {
		return m.responses[i], nil
	}
	return "ok", nil
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockPromptStore serves fixed English templates.
type mockPromptStore struct {
	prompts map[string]string
	missing map[string]bool
}

func newMockPromptStore() *mockPromptStore {
	return &mockPromptStore{
		prompts: map[string]string{
			driven.PromptGeneralSystem:   "GENERAL",
			driven.PromptGroundedSystem:  "GROUNDED",
			driven.PromptSummarizeSystem: "SUMMARIZE",
			driven.PromptQuizSystem:      "QUIZ",
			driven.PromptSummarizeQuery:  "Summarize %s.",
			driven.PromptQuizQuery:       "Write a quiz about %s.",
			driven.PromptDocumentNamed:   "the document '%s'",
			driven.PromptDocumentGeneric: "the given document",
			driven.PromptContextChunk:    "[p. %d]: %s",
			driven.PromptContext:         "Context:\n%s",
			driven.PromptQuestion:        "Question: %s",
			driven.PromptHistory:         "Conversation so far:\n%s",
			driven.PromptNotFound:        "Not found in the document.",
			driven.PromptApology:         "Sorry. Request ID: %s",
		},
		missing: map[string]bool{},
	}
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.missing[name] {
		return "", domain.ErrNotFound
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockLogSink collects entries.
type mockLogSink struct {
	mu      sync.Mutex
	entries []domain.QueryLogEntry
	err     error
}

func (m *mockLogSink) Append(_ context.Context, entry domain.QueryLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockLogSink) Read(_ context.Context) ([]domain.QueryLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.QueryLogEntry(nil), m.entries...), nil
}

// generateCall records one Generate invocation.
type generateCall struct {
	prompt string
	mode   domain.GenerationMode
}

// mockGenerator replays answers or errors in order.
type mockGenerator struct {
	answers []string
	errs    []error
	calls   []generateCall
}

func (m *mockGenerator) Generate(_ context.Context, prompt string, mode domain.GenerationMode) (string, error) {
	i := len(m.calls)
	m.calls = append(m.calls, generateCall{prompt: prompt, mode: mode})
	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if i < len(m.answers) {
		return m.answers[i], nil
	}
	return "answer", nil
}

// mockRetriever replays a fixed result.
type mockRetriever struct {
	result *domain.RetrievalResult
	err    error
	calls  []retrieveCall
}

type retrieveCall struct {
	query  string
	fileID string
	topK   int
}

func (m *mockRetriever) Retrieve(_ context.Context, query, fileID string, topK int) (*domain.RetrievalResult, error) {
	m.calls = append(m.calls, retrieveCall{query: query, fileID: fileID, topK: topK})
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &domain.RetrievalResult{}, nil
	}
	return m.result, nil
}

// mockObserver records observations.
type mockObserver struct {
	queries    []domain.QueryLogEntry
	ingestions []error
}

func (m *mockObserver) QueryCompleted(entry domain.QueryLogEntry) {
	m.queries = append(m.queries, entry)
}

func (m *mockObserver) IngestionCompleted(_ domain.FileType, _ int, _ time.Duration, err error) {
	m.ingestions = append(m.ingestions, err)
}
