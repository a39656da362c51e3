package service

import (
	"context"
	"fmt"

	"github.com/maternalab/gravida/internal/domain"
	"go.uber.org/zap"
)

// Handler-specific importance weights for outcome memories.
const (
	importanceMedicalReview   = 0.9
	importancePregnancyUpdate = 0.8
	importanceEducation       = 0.6
	importanceContraction     = 0.9
	importanceAppointment     = 0.8
	importanceUpload          = 0.5
	importanceReminder        = 0.7
	importanceEmergency       = 0.8
	importanceSymptom         = 0.7
)

type actionHandler func(ctx context.Context, userID string, action *domain.Action, tc *domain.TurnContext) domain.ExecutionResult

// Executor runs a single action through its registered handler. The catalog
// is closed: constructing the executor binds every kind to exactly one
// handler, and anything else yields an unknown-action result instead of a
// crash. A successful handler performs one content-generation call and
// records exactly one outcome memory.
type Executor struct {
	memories  *MemoryService
	profiles  domain.ProfileStore
	documents domain.DocumentStore
	content   domain.ContentClient
	logger    *zap.Logger
	handlers  map[domain.ActionKind]actionHandler
}

func NewExecutor(memories *MemoryService, profiles domain.ProfileStore, documents domain.DocumentStore, cc domain.ContentClient, logger *zap.Logger) *Executor {
	e := &Executor{
		memories:  memories,
		profiles:  profiles,
		documents: documents,
		content:   cc,
		logger:    logger,
	}
	e.handlers = map[domain.ActionKind]actionHandler{
		domain.ActionScheduleAppointment: e.scheduleAppointment,
		domain.ActionUploadDocument:      e.uploadDocument,
		domain.ActionMedicalReview:       e.medicalReview,
		domain.ActionPregnancyUpdate:     e.pregnancyUpdate,
		domain.ActionReminder:            e.createReminder,
		domain.ActionEmergencyContact:    e.emergencyContact,
		domain.ActionEducation:           e.education,
		domain.ActionSymptomTracking:     e.symptomTracking,
		domain.ActionContractionTracking: e.contractionTracking,
	}
	return e
}

// Execute runs action at most once. A completed action is not re-run; a
// failed handler leaves the action incomplete so a later turn may plan and
// retry it.
func (e *Executor) Execute(ctx context.Context, action *domain.Action, userID string, tc *domain.TurnContext) domain.ExecutionResult {
	if action.Completed {
		return domain.ExecutionResult{
			Kind:    action.Kind,
			Status:  domain.ResultInfo,
			Message: "action already executed this turn",
		}
	}

	handler, ok := e.handlers[action.Kind]
	if !ok {
		e.logger.Warn("unknown action kind", zap.String("kind", string(action.Kind)))
		return domain.ExecutionResult{
			Kind:    action.Kind,
			Status:  domain.ResultUnknownAction,
			Message: fmt.Sprintf("unknown action kind: %s", action.Kind),
		}
	}

	result := handler(ctx, userID, action, tc)
	if result.Status == domain.ResultSuccess {
		action.Completed = true
	} else {
		e.logger.Info("action did not complete",
			zap.String("kind", string(action.Kind)),
			zap.String("status", string(result.Status)),
			zap.String("message", result.Message))
	}
	return result
}

func (e *Executor) medicalReview(ctx context.Context, userID string, action *domain.Action, tc *domain.TurnContext) domain.ExecutionResult {
	docs, err := e.documents.List(ctx, userID)
	if err != nil {
		return errorResult(action.Kind, err)
	}
	if len(docs) == 0 {
		return infoResult(action.Kind, "no medical documents found for review")
	}

	summaries := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, map[string]any{
			"type":      d.Type,
			"file_name": d.FileName,
			"summary":   d.Summary,
		})
	}

	review, err := e.content.Generate(ctx, domain.InsightMedicalReview, map[string]any{
		"user_id":   userID,
		"documents": summaries,
	})
	if err != nil {
		return errorResult(action.Kind, err)
	}

	if err := e.memories.Remember(ctx, &domain.Memory{
		UserID:     userID,
		Kind:       domain.MemoryKindMedical,
		Content:    fmt.Sprintf("Medical review completed: %v", review["summary"]),
		Importance: importanceMedicalReview,
		Metadata:   map[string]any{"document_type": "review", "review": review},
	}); err != nil {
		return errorResult(action.Kind, err)
	}

	return successResult(action.Kind, "medical review completed", review)
}

func (e *Executor) pregnancyUpdate(ctx context.Context, userID string, action *domain.Action, tc *domain.TurnContext) domain.ExecutionResult {
	profile := tc.Profile
	if profile == nil || profile.LMPDate == nil {
		return infoResult(action.Kind, "pregnancy week is up to date")
	}

	week := domain.PregnancyWeekFromLMP(*profile.LMPDate, tc.Now)
	if week == profile.PregnancyWeek {
		return infoResult(action.Kind, "pregnancy week is up to date")
	}

	if _, err := e.profiles.Update(ctx, userID, domain.ProfileUpdate{PregnancyWeek: &week}); err != nil {
		return errorResult(action.Kind, err)
	}

	insights, err := e.content.Generate(ctx, domain.InsightPregnancyWeek, map[string]any{
		"user_id": userID,
		"week":    week,
	})
	if err != nil {
		return errorResult(action.Kind, err)
	}

	if err := e.memories.Remember(ctx, &domain.Memory{
		UserID:     userID,
		Kind:       domain.MemoryKindPregnancy,
		Content:    fmt.Sprintf("Pregnancy week updated to %d. %v", week, insights["week_summary"]),
		Importance: importancePregnancyUpdate,
		Metadata:   map[string]any{"pregnancy_week": week, "insights": insights},
	}); err != nil {
		return errorResult(action.Kind, err)
	}

	return successResult(action.Kind, fmt.Sprintf("pregnancy week updated to %d", week), insights)
}

func (e *Executor) education(ctx context.Context, userID string, action *domain.Action, tc *domain.TurnContext) domain.ExecutionResult {
	week := 0
	if tc.Profile != nil {
		week = tc.Profile.PregnancyWeek
	}
	if week <= 0 {
		return infoResult(action.Kind, "pregnancy week information needed for education")
	}

	education, err := e.content.Generate(ctx, domain.InsightEducation, map[string]any{
		"user_id": userID,
		"week":    week,
	})
	if err != nil {
		return errorResult(action.Kind, err)
	}

	if err := e.memories.Remember(ctx, &domain.Memory{
		UserID:     userID,
		Kind:       domain.MemoryKindPregnancy,
		Content:    fmt.Sprintf("Provided education for pregnancy week %d", week),
		Importance: importanceEducation,
		Metadata:   map[string]any{"pregnancy_week": week, "education": education},
	}); err != nil {
		return errorResult(action.Kind, err)
	}

	return successResult(action.Kind, fmt.Sprintf("pregnancy education for week %d", week), education)
}

func (e *Executor) contractionTracking(ctx context.Context, userID string, action *domain.Action, tc *domain.TurnContext) domain.ExecutionResult {
	data, ok := action.Metadata["contraction_data"]
	if !ok && tc != nil {
		data, ok = tc.Metadata["contraction_data"]
	}
	if !ok || data == nil {
		return infoResult(action.Kind, "contraction data needed for analysis")
	}

	analysis, err := e.content.Generate(ctx, domain.InsightContractionAnalysis, map[string]any{
		"user_id":          userID,
		"contraction_data": data,
	})
	if err != nil {
		return errorResult(action.Kind, err)
	}

	if err := e.memories.Remember(ctx, &domain.Memory{
		UserID:     userID,
		Kind:       domain.MemoryKindPregnancy,
		Content:    fmt.Sprintf("Contraction analysis: %v", analysis["pattern"]),
		Importance: importanceContraction,
		Metadata:   map[string]any{"contraction_data": data, "analysis": analysis},
	}); err != nil {
		return errorResult(action.Kind, err)
	}

	return successResult(action.Kind, "contraction analysis completed", analysis)
}

func (e *Executor) scheduleAppointment(ctx context.Context, userID string, action *domain.Action, tc *domain.TurnContext) domain.ExecutionResult {
	appointmentType := metadataString(action.Metadata, "appointment_type", "general")

	recommendations, err := e.content.Generate(ctx, domain.InsightAppointment, map[string]any{
		"user_id":          userID,
		"appointment_type": appointmentType,
	})
	if err != nil {
		return errorResult(action.Kind, err)
	}

	if err := e.memories.Remember(ctx, &domain.Memory{
		UserID:     userID,
		Kind:       domain.MemoryKindTask,
		Content:    fmt.Sprintf("Appointment scheduling assistance for %s", appointmentType),
		Importance: importanceAppointment,
		Metadata:   map[string]any{"appointment_type": appointmentType, "recommendations": recommendations},
	}); err != nil {
		return errorResult(action.Kind, err)
	}

	return successResult(action.Kind, fmt.Sprintf("appointment scheduling for %s", appointmentType), recommendations)
}

func (e *Executor) uploadDocument(ctx context.Context, userID string, action *domain.Action, tc *domain.TurnContext) domain.ExecutionResult {
	recommendations, err := e.content.Generate(ctx, domain.InsightDocumentUpload, map[string]any{
		"user_id": userID,
	})
	if err != nil {
		return errorResult(action.Kind, err)
	}

	if err := e.memories.Remember(ctx, &domain.Memory{
		UserID:     userID,
		Kind:       domain.MemoryKindTask,
		Content:    "Guided the user through a medical document upload",
		Importance: importanceUpload,
		Metadata:   map[string]any{"recommendations": recommendations},
	}); err != nil {
		return errorResult(action.Kind, err)
	}

	return successResult(action.Kind, "document upload guidance prepared", recommendations)
}

func (e *Executor) createReminder(ctx context.Context, userID string, action *domain.Action, tc *domain.TurnContext) domain.ExecutionResult {
	reminderType := metadataString(action.Metadata, "reminder_type", "general")

	settings, err := e.content.Generate(ctx, domain.InsightReminder, map[string]any{
		"user_id":       userID,
		"reminder_type": reminderType,
	})
	if err != nil {
		return errorResult(action.Kind, err)
	}

	if err := e.memories.Remember(ctx, &domain.Memory{
		UserID:     userID,
		Kind:       domain.MemoryKindTask,
		Content:    fmt.Sprintf("Reminder created for %s", reminderType),
		Importance: importanceReminder,
		Metadata:   map[string]any{"reminder_type": reminderType, "settings": settings},
	}); err != nil {
		return errorResult(action.Kind, err)
	}

	return successResult(action.Kind, fmt.Sprintf("reminder created for %s", reminderType), settings)
}

func (e *Executor) emergencyContact(ctx context.Context, userID string, action *domain.Action, tc *domain.TurnContext) domain.ExecutionResult {
	contact := ""
	if tc.Profile != nil {
		contact = tc.Profile.EmergencyContact
	}

	guidance, err := e.content.Generate(ctx, domain.InsightEmergency, map[string]any{
		"user_id":           userID,
		"emergency_contact": contact,
	})
	if err != nil {
		return errorResult(action.Kind, err)
	}

	if err := e.memories.Remember(ctx, &domain.Memory{
		UserID:     userID,
		Kind:       domain.MemoryKindGeneric,
		Content:    "Provided emergency contact guidance",
		Importance: importanceEmergency,
		Metadata:   map[string]any{"emergency_contact": contact, "guidance": guidance},
	}); err != nil {
		return errorResult(action.Kind, err)
	}

	return successResult(action.Kind, "emergency guidance prepared", guidance)
}

func (e *Executor) symptomTracking(ctx context.Context, userID string, action *domain.Action, tc *domain.TurnContext) domain.ExecutionResult {
	trackingType := metadataString(action.Metadata, "tracking_type", "daily")

	analysis, err := e.content.Generate(ctx, domain.InsightSymptomAnalysis, map[string]any{
		"user_id":       userID,
		"tracking_type": trackingType,
	})
	if err != nil {
		return errorResult(action.Kind, err)
	}

	if err := e.memories.Remember(ctx, &domain.Memory{
		UserID:     userID,
		Kind:       domain.MemoryKindPregnancy,
		Content:    fmt.Sprintf("Symptom tracking (%s) analysis recorded", trackingType),
		Importance: importanceSymptom,
		Metadata:   map[string]any{"tracking_type": trackingType, "analysis": analysis},
	}); err != nil {
		return errorResult(action.Kind, err)
	}

	return successResult(action.Kind, fmt.Sprintf("symptom tracking (%s) completed", trackingType), analysis)
}

func metadataString(m map[string]any, key, fallback string) string {
	if m == nil {
		return fallback
	}
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func successResult(kind domain.ActionKind, message string, payload map[string]any) domain.ExecutionResult {
	return domain.ExecutionResult{Kind: kind, Status: domain.ResultSuccess, Message: message, Payload: payload}
}

func infoResult(kind domain.ActionKind, message string) domain.ExecutionResult {
	return domain.ExecutionResult{Kind: kind, Status: domain.ResultInfo, Message: message}
}

func errorResult(kind domain.ActionKind, err error) domain.ExecutionResult {
	return domain.ExecutionResult{Kind: kind, Status: domain.ResultError, Message: err.Error()}
}
