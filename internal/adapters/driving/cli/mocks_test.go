package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

type mockIngestService struct {
	results map[string]*domain.IngestionResult
	err     error
	seen    []string
}

func (m *mockIngestService) Ingest(_ context.Context, filename string, _ []byte) (*domain.IngestionResult, error) {
	m.seen = append(m.seen, filename)
	if m.err != nil {
		return nil, m.err
	}
	if r, ok := m.results[filename]; ok {
		return r, nil
	}
	return &domain.IngestionResult{FileID: "doc-00000000", Filename: filename, Type: domain.DetectFileType(filename)}, nil
}

type mockQueryService struct {
	resp    *domain.QueryResponse
	err     error
	lastReq domain.QueryRequest
	calls   int
}

func (m *mockQueryService) HandleQuery(_ context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

type mockDocumentService struct {
	documents []domain.Document
	err       error
}

func (m *mockDocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	for i := range m.documents {
		if m.documents[i].FileID == id {
			return &m.documents[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

type mockReportService struct {
	latency   *domain.LatencyReport
	precision *domain.PrecisionReport
	err       error
	lastTruth domain.GroundTruth
	lastK     int
}

func (m *mockReportService) Latency(_ context.Context) (*domain.LatencyReport, error) {
	return m.latency, m.err
}

func (m *mockReportService) Precision(_ context.Context, truth domain.GroundTruth, k int) (*domain.PrecisionReport, error) {
	m.lastTruth = truth
	m.lastK = k
	return m.precision, m.err
}

type testServices struct {
	ingest  *mockIngestService
	query   *mockQueryService
	docs    *mockDocumentService
	report  *mockReportService
	closed  int
	builder int
}

// setupTestServices installs mock services and default settings, and
// restores the package state when the test ends.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	ts := &testServices{
		ingest: &mockIngestService{},
		query:  &mockQueryService{resp: &domain.QueryResponse{Answer: "mock answer"}},
		docs:   &mockDocumentService{},
		report: &mockReportService{latency: &domain.LatencyReport{}},
	}

	defaults := domain.DefaultAppSettings()
	settings = &defaults
	builder = func(context.Context, *domain.AppSettings) (*Services, error) {
		ts.builder++
		return &Services{
			Ingest:    ts.ingest,
			Query:     ts.query,
			Documents: ts.docs,
			Report:    ts.report,
			Close: func() error {
				ts.closed++
				return nil
			},
		}, nil
	}
	services = nil

	t.Cleanup(func() {
		settings = nil
		builder = nil
		services = nil
		resetFlags()
	})
	return ts
}

func resetFlags() {
	configFile, envFile, verbose = "", "", false
	ingestJSON = false
	askFileID, askRAG, askType, askJSON = "", false, "freeform", false
	documentsJSON = false
	reportGroundTruth, reportK, reportJSON = "", domain.DefaultTopK, false
	serveAddr, serveCORSOrigins = "", nil
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// useStdin makes ask read input as if piped.
func useStdin(t *testing.T, input string) {
	t.Helper()
	origIn, origTerm := stdin, stdinIsTerminal
	stdin = strings.NewReader(input)
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() {
		stdin, stdinIsTerminal = origIn, origTerm
	})
}
