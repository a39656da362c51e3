// Package similarity ranks candidate vectors against a query vector by
// cosine similarity. It is pure and does no I/O.
package similarity

import (
	"math"
	"sort"
)

// Cosine returns the cosine similarity of a and b. A zero-norm vector (or a
// dimension mismatch) scores 0 rather than dividing by zero.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Rank returns the indices of at most topK candidates ordered by similarity
// to query descending. Ties keep ascending original index order, so repeated
// calls with the same inputs return the same ordering.
func Rank(query []float32, candidates [][]float32, topK int) []int {
	if topK <= 0 || len(candidates) == 0 {
		return nil
	}

	scores := make([]float64, len(candidates))
	indices := make([]int, len(candidates))
	for i, c := range candidates {
		scores[i] = Cosine(query, c)
		indices[i] = i
	}

	sort.SliceStable(indices, func(i, j int) bool {
		return scores[indices[i]] > scores[indices[j]]
	})

	if topK < len(indices) {
		indices = indices[:topK]
	}
	return indices
}
