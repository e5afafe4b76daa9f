package mcp

import (
	"context"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

// mockQueryService records the last request and returns a canned response.
type mockQueryService struct {
	resp    *domain.QueryResponse
	err     error
	lastReq domain.QueryRequest
}

func (m *mockQueryService) HandleQuery(_ context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

// mockIngestService records the ingested file.
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

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}
