package service

import (
	"context"
	"errors"
	"testing"

	"github.com/maternalab/gravida/internal/content"
	"github.com/maternalab/gravida/internal/domain"
	"go.uber.org/zap"
)

func newMemoryService(store *fakeMemoryStore, embedder *fakeEmbedder, cc *content.MockClient) *MemoryService {
	return NewMemoryService(store, embedder, cc, zap.NewNop())
}

func TestRememberValidation(t *testing.T) {
	svc := newMemoryService(&fakeMemoryStore{}, newFakeEmbedder(), content.NewMockClient())
	ctx := context.Background()

	cases := []struct {
		name   string
		memory domain.Memory
		want   error
	}{
		{"empty content", domain.Memory{UserID: "u1"}, ErrMemoryContentEmpty},
		{"missing user", domain.Memory{Content: "hi"}, ErrMemoryUserIDMissing},
		{"bad kind", domain.Memory{UserID: "u1", Content: "hi", Kind: "bogus"}, ErrInvalidMemoryKind},
		{"negative importance", domain.Memory{UserID: "u1", Content: "hi", Importance: -0.1}, ErrNegativeImportance},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := tc.memory
			if err := svc.Remember(ctx, &m); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRememberDefaults(t *testing.T) {
	store := &fakeMemoryStore{}
	svc := newMemoryService(store, newFakeEmbedder(), content.NewMockClient())

	m := domain.Memory{UserID: "u1", Content: "first scan tomorrow"}
	if err := svc.Remember(context.Background(), &m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.Kind != domain.MemoryKindGeneric {
		t.Errorf("expected generic kind, got %s", m.Kind)
	}
	if m.Importance != DefaultImportance {
		t.Errorf("expected default importance, got %f", m.Importance)
	}
	if m.EnrichedContent != "mock enriched content" {
		t.Errorf("expected enrichment applied, got %q", m.EnrichedContent)
	}
	if len(m.Embedding) != domain.EmbeddingDim {
		t.Errorf("expected embedding of dim %d, got %d", domain.EmbeddingDim, len(m.Embedding))
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(store.inserted))
	}
}

func TestRememberSurvivesEnrichmentFailure(t *testing.T) {
	store := &fakeMemoryStore{}
	cc := content.NewMockClient()
	cc.EnrichErr = errors.New("llm down")
	svc := newMemoryService(store, newFakeEmbedder(), cc)

	m := domain.Memory{UserID: "u1", Content: "note"}
	if err := svc.Remember(context.Background(), &m); err != nil {
		t.Fatalf("enrichment failure must not block insert: %v", err)
	}
	if m.EnrichedContent != "" {
		t.Errorf("expected no enrichment, got %q", m.EnrichedContent)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(store.inserted))
	}
}

func TestRememberSurvivesEmbeddingFailure(t *testing.T) {
	store := &fakeMemoryStore{}
	embedder := newFakeEmbedder()
	embedder.failing = true
	svc := newMemoryService(store, embedder, content.NewMockClient())

	m := domain.Memory{UserID: "u1", Content: "note"}
	if err := svc.Remember(context.Background(), &m); err != nil {
		t.Fatalf("embedding failure must not block insert: %v", err)
	}
	if m.Embedding != nil {
		t.Errorf("expected no embedding, got %d values", len(m.Embedding))
	}
}

func TestRememberConversation(t *testing.T) {
	store := &fakeMemoryStore{}
	cc := content.NewMockClient()
	svc := newMemoryService(store, newFakeEmbedder(), cc)

	err := svc.RememberConversation(context.Background(), "u1", "שלום", "שלום! איך אוכל לעזור?", &domain.TurnContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(store.inserted))
	}

	m := store.inserted[0]
	if m.Kind != domain.MemoryKindConversation {
		t.Errorf("expected conversation kind, got %s", m.Kind)
	}
	if m.Metadata["message"] != "שלום" {
		t.Errorf("message not recorded: %v", m.Metadata["message"])
	}
	if _, ok := m.Metadata["analysis"]; !ok {
		t.Error("expected analysis in metadata")
	}
}

func TestRememberConversationAnalysisFallsBack(t *testing.T) {
	store := &fakeMemoryStore{}
	cc := content.NewMockClient()
	cc.GenerateErr = errors.New("llm down")
	svc := newMemoryService(store, newFakeEmbedder(), cc)

	err := svc.RememberConversation(context.Background(), "u1", "hi", "hello", &domain.TurnContext{})
	if err != nil {
		t.Fatalf("analysis failure must not block insert: %v", err)
	}

	analysis, ok := store.inserted[0].Metadata["analysis"].(map[string]any)
	if !ok {
		t.Fatal("expected fallback analysis map")
	}
	want := content.Defaults(domain.InsightConversationAnalysis)
	if analysis["sentiment"] != want["sentiment"] {
		t.Errorf("expected default analysis, got %v", analysis)
	}
}

func TestByKindRejectsInvalidKind(t *testing.T) {
	svc := newMemoryService(&fakeMemoryStore{}, newFakeEmbedder(), content.NewMockClient())
	if _, err := svc.ByKind(context.Background(), "u1", "bogus", 5); !errors.Is(err, ErrInvalidMemoryKind) {
		t.Errorf("expected ErrInvalidMemoryKind, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	store := &fakeMemoryStore{}
	svc := newMemoryService(store, newFakeEmbedder(), content.NewMockClient())
	ctx := context.Background()

	if err := svc.Remember(ctx, &domain.Memory{UserID: "u1", Content: "note one"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Remember(ctx, &domain.Memory{UserID: "u1", Content: "note two", Kind: domain.MemoryKindMedical, Importance: 0.9}); err != nil {
		t.Fatal(err)
	}

	summary, err := svc.Summarize(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalMemories != 2 {
		t.Errorf("expected 2 memories counted, got %d", summary.TotalMemories)
	}
	if summary.Summary == nil {
		t.Error("expected non-nil summary payload")
	}
}

func TestSummarizeEmptyUserUsesDefaults(t *testing.T) {
	cc := content.NewMockClient()
	svc := newMemoryService(&fakeMemoryStore{}, newFakeEmbedder(), cc)

	summary, err := svc.Summarize(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalMemories != 0 {
		t.Errorf("expected 0 memories, got %d", summary.TotalMemories)
	}
	if len(cc.GenerateCalls) != 0 {
		t.Errorf("no generation expected for empty history, got %d calls", len(cc.GenerateCalls))
	}
}
