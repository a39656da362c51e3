package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/maternalab/gravida/internal/domain"
	"github.com/maternalab/gravida/internal/service"
)

type MemoryHandler struct {
	svc *service.MemoryService
}

func NewMemoryHandler(svc *service.MemoryService) *MemoryHandler {
	return &MemoryHandler{svc: svc}
}

type createMemoryRequest struct {
	UserID     string         `json:"user_id"`
	Kind       string         `json:"kind,omitempty"`
	Content    string         `json:"content"`
	Importance float64        `json:"importance,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func (h *MemoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	memory := &domain.Memory{
		UserID:     req.UserID,
		Kind:       domain.MemoryKind(req.Kind),
		Content:    req.Content,
		Importance: req.Importance,
		Metadata:   req.Metadata,
	}

	if err := h.svc.Remember(r.Context(), memory); err != nil {
		switch {
		case errors.Is(err, service.ErrMemoryContentEmpty),
			errors.Is(err, service.ErrMemoryUserIDMissing),
			errors.Is(err, service.ErrInvalidMemoryKind),
			errors.Is(err, service.ErrNegativeImportance):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create memory")
		}
		return
	}

	writeJSON(w, http.StatusCreated, memory)
}

func (h *MemoryHandler) Recent(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	limit := queryInt(r, "limit", 5)

	memories, err := h.svc.Recent(r.Context(), userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list memories")
		return
	}
	if memories == nil {
		memories = []domain.Memory{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":  userID,
		"memories": memories,
		"count":    len(memories),
	})
}

func (h *MemoryHandler) ByKind(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	kind := r.URL.Query().Get("kind")
	limit := queryInt(r, "limit", 20)

	memories, err := h.svc.ByKind(r.Context(), userID, domain.MemoryKind(kind), limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMemoryKind) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list memories")
		return
	}
	if memories == nil {
		memories = []domain.Memory{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":  userID,
		"kind":     kind,
		"memories": memories,
		"count":    len(memories),
	})
}

func (h *MemoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	summary, err := h.svc.Summarize(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to summarize memories")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func queryInt(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
