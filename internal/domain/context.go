package domain

import "time"

// TurnContext is the ephemeral per-turn aggregate the orchestrator assembles:
// a profile snapshot, a bounded window of recent memories, the top-K
// relevance-ranked memories for the current message, and caller metadata.
// It is built fresh each turn and never cached across turns.
type TurnContext struct {
	Profile          *Profile          `json:"profile,omitempty"`
	RecentMemories   []Memory          `json:"recent_memories,omitempty"`
	RelevantMemories []Memory          `json:"relevant_memories,omitempty"`
	Documents        []MedicalDocument `json:"documents,omitempty"`
	Metadata         map[string]any    `json:"metadata,omitempty"`
	Now              time.Time         `json:"now"`
}

// TurnResult is the Turn API response payload.
type TurnResult struct {
	Response        string           `json:"response"`
	ExecutedActions []ExecutedAction `json:"actions"`
	Suggestions     []Action         `json:"suggestions,omitempty"`
	Context         *TurnContext     `json:"context,omitempty"`
	NeedsProfile    bool             `json:"needs_profile"`
}
