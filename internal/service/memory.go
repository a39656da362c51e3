package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/maternalab/gravida/internal/content"
	"github.com/maternalab/gravida/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrMemoryContentEmpty  = errors.New("content is required")
	ErrMemoryUserIDMissing = errors.New("user_id is required")
	ErrInvalidMemoryKind   = errors.New("invalid memory kind")
	ErrNegativeImportance  = errors.New("importance must be non-negative")
)

// DefaultImportance is used when a caller does not weight a memory.
const DefaultImportance = 0.5

// MemoryService records and lists memories. Enrichment and insert-time
// embedding are best effort: when a collaborator is down the bare memory is
// stored anyway.
type MemoryService struct {
	store    domain.MemoryStore
	embedder MemoryEmbedder
	content  domain.ContentClient
	logger   *zap.Logger
}

func NewMemoryService(store domain.MemoryStore, embedder MemoryEmbedder, cc domain.ContentClient, logger *zap.Logger) *MemoryService {
	return &MemoryService{
		store:    store,
		embedder: embedder,
		content:  cc,
		logger:   logger,
	}
}

// Remember validates and persists a memory. The owning user id and content
// are immutable after this call.
func (s *MemoryService) Remember(ctx context.Context, m *domain.Memory) error {
	if m.Content == "" {
		return ErrMemoryContentEmpty
	}
	if m.UserID == "" {
		return ErrMemoryUserIDMissing
	}
	if m.Importance < 0 {
		return ErrNegativeImportance
	}
	if m.Importance == 0 {
		m.Importance = DefaultImportance
	}
	if m.Kind == "" {
		m.Kind = domain.MemoryKindGeneric
	} else if !domain.ValidMemoryKind(string(m.Kind)) {
		return ErrInvalidMemoryKind
	}

	if s.content != nil && m.EnrichedContent == "" {
		enriched, err := s.content.Enrich(ctx, m.Kind, m.Content)
		if err != nil {
			s.logger.Warn("memory enrichment failed", zap.Error(err))
		} else {
			m.EnrichedContent = enriched
		}
	}

	if s.embedder != nil {
		vec, err := s.embedder.Embed(ctx, m.EmbeddingText())
		if err != nil {
			s.logger.Warn("insert-time embedding failed", zap.Error(err))
			// Stored without a vector; the retriever embeds it on demand.
		} else {
			m.Embedding = vec
		}
	}

	return s.store.Insert(ctx, m)
}

// RememberConversation persists one chat turn as a conversation memory,
// attaching a collaborator analysis of the exchange when available.
func (s *MemoryService) RememberConversation(ctx context.Context, userID, message, response string, tc *domain.TurnContext) error {
	metadata := map[string]any{
		"message":  message,
		"response": response,
	}

	if s.content != nil {
		analysis, err := s.content.Generate(ctx, domain.InsightConversationAnalysis, map[string]any{
			"message":  message,
			"response": response,
		})
		if err != nil {
			s.logger.Warn("conversation analysis failed", zap.Error(err))
			analysis = content.Defaults(domain.InsightConversationAnalysis)
		}
		metadata["analysis"] = analysis
	}

	return s.Remember(ctx, &domain.Memory{
		UserID:   userID,
		Kind:     domain.MemoryKindConversation,
		Content:  "User: " + message + " | Agent: " + response,
		Metadata: metadata,
	})
}

func (s *MemoryService) Recent(ctx context.Context, userID string, limit int) ([]domain.Memory, error) {
	return s.store.ListRecent(ctx, userID, limit)
}

func (s *MemoryService) ByKind(ctx context.Context, userID string, kind domain.MemoryKind, limit int) ([]domain.Memory, error) {
	if !domain.ValidMemoryKind(string(kind)) {
		return nil, ErrInvalidMemoryKind
	}
	return s.store.ListByKind(ctx, userID, kind, limit)
}

func (s *MemoryService) Touch(ctx context.Context, id uuid.UUID) error {
	return s.store.Touch(ctx, id)
}

// MemorySummary is a collaborator-produced digest of everything the system
// remembers about a user.
type MemorySummary struct {
	UserID        string         `json:"user_id"`
	TotalMemories int            `json:"total_memories"`
	Summary       map[string]any `json:"summary"`
}

// Summarize digests all of a user's memories. Collaborator failure degrades
// to the fixed default summary, never an error.
func (s *MemoryService) Summarize(ctx context.Context, userID string) (*MemorySummary, error) {
	memories, err := s.store.ListCandidates(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := content.Defaults(domain.InsightMemorySummary)
	if s.content != nil && len(memories) > 0 {
		contents := make([]string, 0, len(memories))
		for _, m := range memories {
			contents = append(contents, string(m.Kind)+": "+m.Content)
		}
		generated, err := s.content.Generate(ctx, domain.InsightMemorySummary, map[string]any{
			"memories": contents,
		})
		if err != nil {
			s.logger.Warn("memory summary generation failed", zap.Error(err))
		} else {
			summary = generated
		}
	}

	return &MemorySummary{
		UserID:        userID,
		TotalMemories: len(memories),
		Summary:       summary,
	}, nil
}
