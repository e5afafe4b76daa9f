package httpapi

import (
	"context"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

type mockIngestService struct {
	result   *domain.IngestionResult
	err      error
	filename string
	content  []byte
}

func (m *mockIngestService) Ingest(_ context.Context, filename string, content []byte) (*domain.IngestionResult, error) {
	m.filename = filename
	m.content = content
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockQueryService struct {
	resp    *domain.QueryResponse
	err     error
	lastReq *domain.QueryRequest
}

func (m *mockQueryService) HandleQuery(_ context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	m.lastReq = &req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

type mockDocumentService struct {
	documents []domain.Document
	err       error
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}
