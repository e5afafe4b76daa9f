// Package mcp provides an MCP (Model Context Protocol) server adapter for ragbot.
// It lets AI assistants ask grounded questions about ingested documents and
// ingest local files.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")

// ErrIngestDisabled is returned by ingest_file when no ingest service is wired.
var ErrIngestDisabled = errors.New("mcp: ingestion is not available")
