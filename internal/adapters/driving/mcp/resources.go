package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

const uriScheme = "ragbot://"

// documentInfo is the JSON shape of a document resource.
type documentInfo struct {
	FileID    string `json:"file_id"`
	Filename  string `json:"filename"`
	Type      string `json:"type"`
	Pages     int    `json:"pages"`
	Chunks    int    `json:"chunks"`
	CreatedAt string `json:"created_at"`
}

func toDocumentInfo(d *domain.Document) documentInfo {
	return documentInfo{
		FileID:    d.FileID,
		Filename:  d.Filename,
		Type:      string(d.Type),
		Pages:     d.PageCount,
		Chunks:    d.ChunkCount,
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Ingested documents, newest first",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{fileId}",
		Name:        "document",
		Description: "Metadata of one ingested document",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)
}

func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	infos := []documentInfo{}
	if s.ports.Documents != nil {
		docs, err := s.ports.Documents.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing documents: %w", err)
		}
		for i := range docs {
			infos = append(infos, toDocumentInfo(&docs[i]))
		}
	}
	return jsonResource(req.Params.URI, infos)
}

func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Documents == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	fileID := extractFileID(req.Params.URI)
	if fileID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Documents.Get(ctx, fileID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return jsonResource(req.Params.URI, toDocumentInfo(doc))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractFileID extracts the file ID from ragbot://documents/{fileId}.
func extractFileID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
