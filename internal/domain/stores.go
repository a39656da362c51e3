package domain

import (
	"context"

	"github.com/google/uuid"
)

// MemoryStore persists append-only memory records per user.
type MemoryStore interface {
	Insert(ctx context.Context, m *Memory) error
	// ListRecent returns up to limit memories ordered by creation time
	// descending. A user with no memories yields an empty slice, not an
	// error.
	ListRecent(ctx context.Context, userID string, limit int) ([]Memory, error)
	// ListCandidates returns all memories for the user ordered by
	// last-accessed descending then importance descending. This ordering is
	// the retriever's fallback when ranking is unavailable.
	ListCandidates(ctx context.Context, userID string) ([]Memory, error)
	ListByKind(ctx context.Context, userID string, kind MemoryKind, limit int) ([]Memory, error)
	// Touch updates last-accessed to now. A stale id is a no-op.
	Touch(ctx context.Context, id uuid.UUID) error
}

// ProfileStore is the excluded profile collaborator. The core reads
// gestation stage, document presence and emergency contact from it.
type ProfileStore interface {
	Create(ctx context.Context, p *Profile) error
	// Get returns nil (no error) when the user has no profile.
	Get(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, userID string, u ProfileUpdate) (*Profile, error)
}

// DocumentStore is the excluded document collaborator.
type DocumentStore interface {
	Add(ctx context.Context, d *MedicalDocument) error
	List(ctx context.Context, userID string) ([]MedicalDocument, error)
}

// EmbeddingClient turns text into a fixed-length vector of dimension
// EmbeddingDim. Backed by a remote model it may be non-deterministic; callers
// must not assume repeatability.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingDim is the provider-wide vector dimension.
const EmbeddingDim = 384

type InsightKind string

// Insight kinds the content-generation collaborator knows how to produce.
// Each maps to one prompt and one fixed default payload used when the
// collaborator fails or returns something unparseable.
const (
	InsightMedicalReview        InsightKind = "medical_review"
	InsightPregnancyWeek        InsightKind = "pregnancy_week"
	InsightEducation            InsightKind = "education"
	InsightContractionAnalysis  InsightKind = "contraction_analysis"
	InsightAppointment          InsightKind = "appointment"
	InsightDocumentUpload       InsightKind = "document_upload"
	InsightReminder             InsightKind = "reminder"
	InsightEmergency            InsightKind = "emergency"
	InsightSymptomAnalysis      InsightKind = "symptom_analysis"
	InsightConversationAnalysis InsightKind = "conversation_analysis"
	InsightMemorySummary        InsightKind = "memory_summary"
)

// ContentClient is the excluded content-generation collaborator.
type ContentClient interface {
	// Generate produces a structured mapping for the given insight kind.
	// Implementations substitute a fixed per-kind default rather than
	// surface a parse failure; only transport errors are returned.
	Generate(ctx context.Context, kind InsightKind, payload map[string]any) (map[string]any, error)
	// Enrich elaborates memory content. On failure callers keep the
	// original content.
	Enrich(ctx context.Context, kind MemoryKind, content string) (string, error)
}
