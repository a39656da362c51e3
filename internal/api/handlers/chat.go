package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/maternalab/gravida/internal/domain"
	"github.com/maternalab/gravida/internal/service"
)

type ChatHandler struct {
	orchestrator *service.Orchestrator
}

func NewChatHandler(orchestrator *service.Orchestrator) *ChatHandler {
	return &ChatHandler{orchestrator: orchestrator}
}

type chatRequest struct {
	UserID   string         `json:"user_id"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type chatResponse struct {
	Response       string                  `json:"response"`
	Actions        []domain.ExecutedAction `json:"actions"`
	Suggestions    []domain.Action         `json:"suggestions,omitempty"`
	NeedsProfile   bool                    `json:"needs_profile"`
	PregnancyWeek  int                     `json:"pregnancy_week,omitempty"`
	RelevantMemory int                     `json:"relevant_memory_count"`
	RecentMemory   int                     `json:"recent_memory_count"`
}

func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	result := h.orchestrator.ProcessMessage(r.Context(), req.UserID, req.Message, req.Metadata)

	resp := chatResponse{
		Response:     result.Response,
		Actions:      result.ExecutedActions,
		Suggestions:  result.Suggestions,
		NeedsProfile: result.NeedsProfile,
	}
	if resp.Actions == nil {
		resp.Actions = []domain.ExecutedAction{}
	}
	if result.Context != nil {
		if result.Context.Profile != nil {
			resp.PregnancyWeek = result.Context.Profile.PregnancyWeek
		}
		resp.RelevantMemory = len(result.Context.RelevantMemories)
		resp.RecentMemory = len(result.Context.RecentMemories)
	}

	writeJSON(w, http.StatusOK, resp)
}
