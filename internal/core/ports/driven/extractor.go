package driven

import (
	"context"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

// TextExtractor converts uploaded bytes into page text.
//
// Pages with no extractable text are omitted. A page whose extraction
// failed is reported as a PageResult with Err set. When the extraction
// tools are unavailable the extractor returns a single diagnostic page
// rather than an error; unsupported content never produces an error.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte, fileType domain.FileType) ([]domain.PageResult, error)
}
