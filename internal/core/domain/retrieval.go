package domain

// RetrievedChunk is one ranked retrieval hit.
type RetrievedChunk struct {
	// ID is the identifier reported by the vector store.
	ID string

	Chunk Chunk

	// Distance is the raw vector distance returned by the store.
	Distance float64

	// Score is the similarity max(0, 1 - Distance).
	Score float64
}

// RetrievalResult is the ordered outcome of one retrieval, nearest first.
// It is transient and never persisted.
type RetrievalResult struct {
	Chunks []RetrievedChunk
}

// Empty reports whether nothing was retrieved.
func (r *RetrievalResult) Empty() bool {
	return r == nil || len(r.Chunks) == 0
}

// TopScore returns the best similarity score, or 0 when empty.
func (r *RetrievalResult) TopScore() float64 {
	if r.Empty() {
		return 0
	}
	return r.Chunks[0].Score
}

// Scores returns the similarity scores in retrieval order.
func (r *RetrievalResult) Scores() []float64 {
	if r.Empty() {
		return nil
	}
	scores := make([]float64, len(r.Chunks))
	for i, c := range r.Chunks {
		scores[i] = c.Score
	}
	return scores
}

// IDs returns the store identifiers in retrieval order.
func (r *RetrievalResult) IDs() []string {
	if r.Empty() {
		return nil
	}
	ids := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		ids[i] = c.ID
	}
	return ids
}

// Pages returns the page numbers in retrieval order.
func (r *RetrievalResult) Pages() []int {
	if r.Empty() {
		return nil
	}
	pages := make([]int, len(r.Chunks))
	for i, c := range r.Chunks {
		pages[i] = c.Chunk.PageNumber
	}
	return pages
}

// SimilarityFromDistance converts a vector distance into a score in [0, 1].
func SimilarityFromDistance(d float64) float64 {
	s := 1 - d
	if s < 0 {
		return 0
	}
	return s
}
