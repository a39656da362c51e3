package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/maternalab/gravida/internal/domain"
	"github.com/maternalab/gravida/internal/store"
)

type ProfileHandler struct {
	profiles  domain.ProfileStore
	documents domain.DocumentStore
}

func NewProfileHandler(profiles domain.ProfileStore, documents domain.DocumentStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, documents: documents}
}

type createProfileRequest struct {
	UserID            string     `json:"user_id"`
	Name              string     `json:"name,omitempty"`
	PregnancyWeek     int        `json:"pregnancy_week,omitempty"`
	LMPDate           *time.Time `json:"lmp_date,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	BloodType         string     `json:"blood_type,omitempty"`
	MedicalConditions []string   `json:"medical_conditions,omitempty"`
	Allergies         []string   `json:"allergies,omitempty"`
	Medications       []string   `json:"medications,omitempty"`
	EmergencyContact  string     `json:"emergency_contact,omitempty"`
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.PregnancyWeek < 0 || req.PregnancyWeek > domain.MaxPregnancyWeek {
		writeError(w, http.StatusBadRequest, "pregnancy_week out of range")
		return
	}

	profile := &domain.Profile{
		UserID:            req.UserID,
		Name:              req.Name,
		PregnancyWeek:     req.PregnancyWeek,
		LMPDate:           req.LMPDate,
		DueDate:           req.DueDate,
		BloodType:         req.BloodType,
		MedicalConditions: req.MedicalConditions,
		Allergies:         req.Allergies,
		Medications:       req.Medications,
		EmergencyContact:  req.EmergencyContact,
	}
	if profile.PregnancyWeek == 0 && profile.LMPDate != nil {
		profile.PregnancyWeek = domain.PregnancyWeekFromLMP(*profile.LMPDate, time.Now().UTC())
	}

	if err := h.profiles.Create(r.Context(), profile); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create profile")
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var req domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PregnancyWeek != nil && (*req.PregnancyWeek < domain.MinPregnancyWeek || *req.PregnancyWeek > domain.MaxPregnancyWeek) {
		writeError(w, http.StatusBadRequest, "pregnancy_week out of range")
		return
	}

	profile, err := h.profiles.Update(r.Context(), userID, req)
	if err != nil {
		if err == store.ErrNotFound {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

type addDocumentRequest struct {
	Type     string         `json:"type"`
	FileName string         `json:"file_name"`
	Summary  string         `json:"summary,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (h *ProfileHandler) AddDocument(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var req addDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FileName == "" {
		writeError(w, http.StatusBadRequest, "file_name is required")
		return
	}

	docType := domain.DocumentType(req.Type)
	if docType == "" {
		docType = domain.DocumentOther
	}

	doc := &domain.MedicalDocument{
		UserID:   userID,
		Type:     docType,
		FileName: req.FileName,
		Summary:  req.Summary,
		Metadata: req.Metadata,
	}
	if err := h.documents.Add(r.Context(), doc); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to add document")
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

func (h *ProfileHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	docs, err := h.documents.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	if docs == nil {
		docs = []domain.MedicalDocument{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":   userID,
		"documents": docs,
		"count":     len(docs),
	})
}
