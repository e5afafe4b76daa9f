// Package vectorstore holds helpers shared by the vector store adapters:
// chunk identifiers and exact cosine ranking.
package vectorstore

import (
	"fmt"
	"math"
	"sort"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
)

// ChunkID returns the store identifier for a chunk key.
func ChunkID(key domain.ChunkKey) string {
	return fmt.Sprintf("%s_chunk_%d", key.FileID, key.Index)
}

// CosineDistance returns 1 - cos(a, b). Vectors of different length or
// with zero norm are maximally distant from everything (distance 1).
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// Ranker accumulates candidate chunks and keeps the k nearest.
type Ranker struct {
	query   []float32
	matches []driven.VectorMatch
}

// NewRanker creates a ranker for one query embedding.
func NewRanker(query []float32) *Ranker {
	return &Ranker{query: query}
}

// Add scores a candidate. Candidates whose dimensions differ from the
// query are skipped and reported as false.
func (r *Ranker) Add(chunk domain.Chunk) bool {
	if len(chunk.Embedding) != len(r.query) {
		return false
	}
	r.matches = append(r.matches, driven.VectorMatch{
		ID:       ChunkID(chunk.Key),
		Chunk:    chunk,
		Distance: CosineDistance(r.query, chunk.Embedding),
	})
	return true
}

// Top returns up to k matches, nearest first. Ties keep a stable order by ID.
func (r *Ranker) Top(k int) []driven.VectorMatch {
	sort.SliceStable(r.matches, func(i, j int) bool {
		if r.matches[i].Distance != r.matches[j].Distance {
			return r.matches[i].Distance < r.matches[j].Distance
		}
		return r.matches[i].ID < r.matches[j].ID
	})
	if k >= 0 && len(r.matches) > k {
		return r.matches[:k]
	}
	return r.matches
}
