package mcp

import (
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Query answers questions.
	Query driving.QueryService

	// Ingest indexes files. Optional; ingest_file fails without it.
	Ingest driving.IngestService

	// Documents lists ingested documents. Optional.
	Documents driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
