// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The ingestion pipeline turns uploaded bytes into indexed chunks:
// extract -> chunk -> embed -> index. The query router decides between
// general and grounded answering, gates low-confidence retrievals and
// runs the single-step fallback chain.
//
// Services are pure Go; every collaborator is injected.
package services
