package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Query  string `json:"query" jsonschema:"the question to answer"`
	FileID string `json:"file_id,omitempty" jsonschema:"ingested document to ground the answer in"`
	UseRAG bool   `json:"use_rag,omitempty" jsonschema:"answer from the document instead of general knowledge (requires file_id)"`
	Type   string `json:"type,omitempty" jsonschema:"freeform (default), summarize or quiz"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string         `json:"answer"`
	Sources   []SourceOutput `json:"sources"`
	FileID    string         `json:"file_id,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// SourceOutput cites one page used for an answer.
type SourceOutput struct {
	File string `json:"file"`
	Page int    `json:"page"`
}

// IngestFileInput is the input schema for the ingest_file tool.
type IngestFileInput struct {
	Path string `json:"path" jsonschema:"local path of a PDF or image file"`
}

// IngestFileOutput is the output schema for the ingest_file tool.
type IngestFileOutput struct {
	FileID             string   `json:"file_id"`
	Filename           string   `json:"filename"`
	Pages              int      `json:"pages"`
	ChunksIndexed      int      `json:"chunks_indexed"`
	Type               string   `json:"type"`
	RecommendedActions []string `json:"recommended_actions"`
	DegradedPages      []int    `json:"degraded_pages,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question, optionally grounded in an ingested document",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_file",
		Description: "Extract, chunk and index a local PDF or image for grounded questions",
	}, s.handleIngestFile)
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	queryType, err := domain.ParseQueryType(input.Type)
	if err != nil {
		return nil, AskOutput{}, err
	}

	resp, err := s.ports.Query.HandleQuery(ctx, domain.QueryRequest{
		Query:  input.Query,
		FileID: input.FileID,
		UseRAG: input.UseRAG,
		Type:   queryType,
	})
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:    resp.Answer,
		Sources:   make([]SourceOutput, len(resp.Sources)),
		FileID:    resp.FileID,
		RequestID: resp.RequestID,
	}
	for i, src := range resp.Sources {
		output.Sources[i] = SourceOutput{File: src.File, Page: src.Page}
	}
	return nil, output, nil
}

func (s *Server) handleIngestFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestFileInput,
) (*mcp.CallToolResult, IngestFileOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestFileOutput{}, ErrIngestDisabled
	}
	if input.Path == "" {
		return nil, IngestFileOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	content, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, IngestFileOutput{}, fmt.Errorf("reading %s: %w", input.Path, err)
	}

	result, err := s.ports.Ingest.Ingest(ctx, filepath.Base(input.Path), content)
	if err != nil {
		return nil, IngestFileOutput{}, err
	}

	return nil, IngestFileOutput{
		FileID:             result.FileID,
		Filename:           result.Filename,
		Pages:              result.PageCount,
		ChunksIndexed:      result.ChunksIndexed,
		Type:               string(result.Type),
		RecommendedActions: result.RecommendedActions,
		DegradedPages:      result.DegradedPages,
	}, nil
}
