package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/maternalab/gravida/internal/service"
)

type TimelineHandler struct {
	svc *service.TimelineService
}

func NewTimelineHandler(svc *service.TimelineService) *TimelineHandler {
	return &TimelineHandler{svc: svc}
}

func (h *TimelineHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	timeline, err := h.svc.Timeline(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to build timeline")
		return
	}

	writeJSON(w, http.StatusOK, timeline)
}

func (h *TimelineHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	weeksAhead := queryInt(r, "weeks", 4)

	milestones, err := h.svc.UpcomingMilestones(r.Context(), userID, weeksAhead)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list milestones")
		return
	}
	if milestones == nil {
		milestones = []service.TimelineEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":    userID,
		"milestones": milestones,
		"count":      len(milestones),
	})
}
