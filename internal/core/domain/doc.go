// Package domain defines the core business entities for the answering service.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested source file
//   - Page: Extracted text of one page, consumed during ingestion
//   - Chunk: The page-attributed unit of retrieval
//   - RetrievalResult: Ranked chunks returned for one query
//   - QueryRequest / QueryResponse: The answering contract
//   - QueryLogEntry: One record per completed query attempt
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
