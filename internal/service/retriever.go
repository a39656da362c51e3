package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/maternalab/gravida/internal/domain"
	"github.com/maternalab/gravida/internal/similarity"
	"go.uber.org/zap"
)

// MemoryEmbedder embeds free text and memory records. EmbedMemory lets the
// implementation reuse a vector it has already computed for the same memory
// id; embedding.Cache does exactly that.
type MemoryEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedMemory(ctx context.Context, id uuid.UUID, text string) ([]float32, error)
}

// Retriever returns the subset of a user's memories most relevant to a query.
// Ranking failures never surface to the caller: the store's recency and
// importance ordering is the answer of last resort.
type Retriever struct {
	memories domain.MemoryStore
	embedder MemoryEmbedder
	logger   *zap.Logger
}

func NewRetriever(memories domain.MemoryStore, embedder MemoryEmbedder, logger *zap.Logger) *Retriever {
	return &Retriever{
		memories: memories,
		embedder: embedder,
		logger:   logger,
	}
}

// Retrieve loads all of the user's memories, ranks them against query by
// embedding similarity and returns at most limit of them. Retrieval does not
// touch last-accessed times; only explicit Touch calls do. Only a store
// failure is returned as an error.
func (r *Retriever) Retrieve(ctx context.Context, userID, query string, limit int) ([]domain.Memory, error) {
	candidates, err := r.memories.ListCandidates(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []domain.Memory{}, nil
	}

	ranked, ok := r.rank(ctx, query, candidates, limit)
	if !ok {
		// Candidates are already in last-accessed/importance order.
		if limit < len(candidates) {
			candidates = candidates[:limit]
		}
		return candidates, nil
	}
	return ranked, nil
}

func (r *Retriever) rank(ctx context.Context, query string, candidates []domain.Memory, limit int) ([]domain.Memory, bool) {
	if r.embedder == nil {
		return nil, false
	}

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.logger.Warn("query embedding failed, falling back to recency ordering", zap.Error(err))
		return nil, false
	}

	vectors := make([][]float32, len(candidates))
	for i := range candidates {
		// Vectors persisted at insert time are reused as-is; only memories
		// stored while the provider was down are embedded here.
		if len(candidates[i].Embedding) > 0 {
			vectors[i] = candidates[i].Embedding
			continue
		}
		vec, err := r.embedder.EmbedMemory(ctx, candidates[i].ID, candidates[i].EmbeddingText())
		if err != nil {
			r.logger.Warn("candidate embedding failed, falling back to recency ordering",
				zap.String("memory_id", candidates[i].ID.String()), zap.Error(err))
			return nil, false
		}
		vectors[i] = vec
	}

	indices := similarity.Rank(queryVec, vectors, limit)

	ranked := make([]domain.Memory, 0, len(indices))
	for _, idx := range indices {
		ranked = append(ranked, candidates[idx])
	}
	return ranked, true
}
