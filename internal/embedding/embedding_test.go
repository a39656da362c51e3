package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/maternalab/gravida/internal/domain"
)

func TestHashClient_Deterministic(t *testing.T) {
	c := NewHashClient()
	ctx := context.Background()

	a, err := c.Embed(ctx, "שלום")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := c.Embed(ctx, "שלום")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(a) != domain.EmbeddingDim {
		t.Fatalf("expected dimension %d, got %d", domain.EmbeddingDim, len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vectors differ at %d: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestHashClient_DistinctTexts(t *testing.T) {
	c := NewHashClient()
	ctx := context.Background()

	a, _ := c.Embed(ctx, "blood test results")
	b, _ := c.Embed(ctx, "ultrasound next week")

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("distinct texts produced identical vectors")
	}
}

func TestNewClient_UnknownProvider(t *testing.T) {
	if _, err := NewClient("watson", "", 0); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewClient_OpenAIRequiresKey(t *testing.T) {
	if _, err := NewClient(ProviderOpenAI, "", 0); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestCache_MemoryKeyedByID(t *testing.T) {
	mock := NewMockClient()
	cache, err := NewCache(mock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id := uuid.New()
	ctx := context.Background()

	if _, err := cache.EmbedMemory(ctx, id, "first trimester nausea"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.Calls) != 1 {
		t.Fatalf("expected 1 provider call, got %d", len(mock.Calls))
	}

	// ristretto admits asynchronously; the second call may or may not hit
	// the cache, but it must never fail and never call more than once more.
	if _, err := cache.EmbedMemory(ctx, id, "first trimester nausea"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.Calls) > 2 {
		t.Fatalf("expected at most 2 provider calls, got %d", len(mock.Calls))
	}
}

func TestCache_PropagatesProviderError(t *testing.T) {
	mock := NewMockClient()
	mock.Err = ErrUnavailable
	cache, err := NewCache(mock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = cache.Embed(context.Background(), "query")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
