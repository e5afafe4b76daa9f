// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Generates answers
//   - VectorStore: Stores chunks with embeddings and answers filtered similarity queries
//   - DocumentStore: Records ingested documents
//   - TextExtractor: Converts uploaded bytes into page text
//   - QueryLogSink / QueryLogReader: Append-only query log
//   - PromptStore: Prompt templates
//   - Observer: Receives query and ingestion outcomes for metrics
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
