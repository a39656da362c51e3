package domain

import (
	"time"

	"github.com/google/uuid"
)

type MemoryKind string

const (
	MemoryKindGeneric      MemoryKind = "generic"
	MemoryKindMedical      MemoryKind = "medical"
	MemoryKindPregnancy    MemoryKind = "pregnancy"
	MemoryKindTask         MemoryKind = "task"
	MemoryKindConversation MemoryKind = "conversation"
)

func ValidMemoryKind(k string) bool {
	switch MemoryKind(k) {
	case MemoryKindGeneric, MemoryKindMedical, MemoryKindPregnancy, MemoryKindTask, MemoryKindConversation:
		return true
	}
	return false
}

// Memory is one durable fact or event tied to a user. Records are append-only:
// after creation only LastAccessedAt changes, and only through an explicit
// store Touch.
type Memory struct {
	ID              uuid.UUID      `json:"id"`
	UserID          string         `json:"user_id"`
	Kind            MemoryKind     `json:"kind"`
	Content         string         `json:"content"`
	EnrichedContent string         `json:"enriched_content,omitempty"`
	Importance      float64        `json:"importance"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	Embedding       []float32      `json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
	LastAccessedAt  time.Time      `json:"last_accessed_at"`
}

// EmbeddingText is the text the retriever ranks a memory by: content plus
// its derived elaboration when present.
func (m *Memory) EmbeddingText() string {
	if m.EnrichedContent == "" {
		return m.Content
	}
	return m.Content + " " + m.EnrichedContent
}
