package embedding

import (
	"context"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"
	"github.com/maternalab/gravida/internal/domain"
)

const (
	cacheNumCounters = 1e5
	cacheMaxCost     = 32 << 20 // ~32MB of float32 vectors
	cacheBufferItems = 64
)

// Cache wraps an embedding client with an in-process ristretto cache.
// Memory embeddings are keyed by memory id: a memory's ranked text never
// changes after creation, so a cached vector stays valid for its lifetime.
// Query text is cached by the text itself.
type Cache struct {
	client domain.EmbeddingClient
	cache  *ristretto.Cache
}

func NewCache(client domain.EmbeddingClient) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cacheNumCounters,
		MaxCost:     cacheMaxCost,
		BufferItems: cacheBufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{client: client, cache: c}, nil
}

func (c *Cache) Embed(ctx context.Context, text string) ([]float32, error) {
	return c.embedKeyed(ctx, "q:"+text, text)
}

// EmbedMemory embeds a memory's text, reusing the cached vector for the id
// when present.
func (c *Cache) EmbedMemory(ctx context.Context, id uuid.UUID, text string) ([]float32, error) {
	return c.embedKeyed(ctx, "m:"+id.String(), text)
}

func (c *Cache) embedKeyed(ctx context.Context, key, text string) ([]float32, error) {
	if v, ok := c.cache.Get(key); ok {
		if vec, ok := v.([]float32); ok {
			return vec, nil
		}
	}

	vec, err := c.client.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, vec, int64(len(vec)*4))
	return vec, nil
}
