// Package chunker splits page text into fixed-size overlapping windows.
package chunker

import "strings"

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// Split cuts text into windows of size characters. Each window starts
// size-overlap characters after the previous one, so neighbours share
// overlap characters. Windows are trimmed and empty windows dropped.
//
// Splitting stops once a window reaches the end of the text. When
// overlap >= size the window cannot advance, and only the first
// non-empty window is returned.
func Split(text string, size, overlap int) []string {
	if size <= 0 || text == "" {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}

	runes := []rune(text)
	step := size - overlap
	stalled := step <= 0
	if stalled {
		// The window cannot advance; scan whole windows until the first
		// non-empty one.
		step = size
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, piece)
			if stalled {
				break
			}
		}

		if end == len(runes) {
			break
		}
	}

	return chunks
}

// Processor splits text with a fixed configuration.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
// An overlap at or above the chunk size is kept as configured;
// Split handles it by emitting a single window.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ChunkSize returns the configured window size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Split splits text with the processor's configuration.
func (p *Processor) Split(text string) []string {
	return Split(text, p.chunkSize, p.overlap)
}
