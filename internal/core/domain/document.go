package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// FileType classifies an uploaded file by its extension.
type FileType string

// Recognised file types.
const (
	FileTypePDF     FileType = "pdf"
	FileTypeImage   FileType = "image"
	FileTypeUnknown FileType = "unknown"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".webp": true,
}

// DetectFileType returns the file type implied by the filename's extension.
// Matching is case-insensitive. Anything unrecognised is FileTypeUnknown.
func DetectFileType(filename string) FileType {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ext == ".pdf":
		return FileTypePDF
	case imageExtensions[ext]:
		return FileTypeImage
	default:
		return FileTypeUnknown
	}
}

// String returns the string representation.
func (t FileType) String() string {
	return string(t)
}

// Document is one ingested source file.
// Created once per successful upload and never mutated afterwards.
type Document struct {
	// FileID is the opaque identifier generated at ingestion ("doc-" prefixed).
	FileID string `json:"file_id"`

	// Filename is the name the file was uploaded under.
	Filename string `json:"filename"`

	// Type is the detected file type.
	Type FileType `json:"type"`

	// PageCount is the number of pages extraction produced.
	PageCount int `json:"pages"`

	// ChunkCount is the number of chunks indexed for the document.
	ChunkCount int `json:"chunks_indexed"`

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time `json:"created_at"`
}

// Page is the extracted text of one page. Numbers start at 1.
type Page struct {
	Number int
	Text   string
}

// PageResult is the outcome of extracting one page.
// A non-nil Err marks the page as degraded; Page.Number is still set.
type PageResult struct {
	Page Page
	Err  error
}

// OK reports whether the page was extracted without error.
func (r PageResult) OK() bool {
	return r.Err == nil
}

// PageOK returns a successful page result.
func PageOK(number int, text string) PageResult {
	return PageResult{Page: Page{Number: number, Text: text}}
}

// PageErr returns a degraded page result.
func PageErr(number int, err error) PageResult {
	return PageResult{Page: Page{Number: number}, Err: err}
}

// ChunkKey identifies a chunk within the vector store.
// Index is contiguous from 0 across all pages of a document.
type ChunkKey struct {
	FileID string
	Index  int
}

// Chunk is the unit of retrieval.
type Chunk struct {
	Key        ChunkKey
	Text       string
	Filename   string
	PageNumber int
	Embedding  []float32
}

// IngestionResult describes a completed ingestion.
type IngestionResult struct {
	FileID             string   `json:"file_id"`
	Filename           string   `json:"filename"`
	PageCount          int      `json:"pages"`
	ChunksIndexed      int      `json:"chunks_indexed"`
	Type               FileType `json:"type"`
	RecommendedActions []string `json:"recommended_actions"`

	// DegradedPages lists pages whose extraction failed and were indexed
	// with placeholder text instead.
	DegradedPages []int `json:"degraded_pages,omitempty"`
}

// RecommendedActions are the follow-up query types offered after an upload.
func RecommendedActions() []string {
	return []string{string(QueryTypeSummarize), string(QueryTypeQuiz)}
}
