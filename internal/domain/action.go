package domain

import "time"

type ActionKind string

// The action catalog is closed: every kind below is bound to exactly one
// executor handler, and the executor refuses anything else.
const (
	ActionScheduleAppointment ActionKind = "schedule_appointment"
	ActionUploadDocument      ActionKind = "upload_document"
	ActionMedicalReview       ActionKind = "medical_review"
	ActionPregnancyUpdate     ActionKind = "pregnancy_update"
	ActionReminder            ActionKind = "reminder"
	ActionEmergencyContact    ActionKind = "emergency_contact"
	ActionEducation           ActionKind = "education"
	ActionSymptomTracking     ActionKind = "symptom_tracking"
	ActionContractionTracking ActionKind = "contraction_tracking"
)

// ActionCatalog lists every registered kind in registration order. Priority
// ties in planner output are broken by this order.
var ActionCatalog = []ActionKind{
	ActionScheduleAppointment,
	ActionUploadDocument,
	ActionMedicalReview,
	ActionPregnancyUpdate,
	ActionReminder,
	ActionEmergencyContact,
	ActionEducation,
	ActionSymptomTracking,
	ActionContractionTracking,
}

func ValidActionKind(k string) bool {
	for _, kind := range ActionCatalog {
		if kind == ActionKind(k) {
			return true
		}
	}
	return false
}

// Action is an ephemeral, prioritized unit of planned work. Actions are built
// fresh on every planning pass and discarded after the turn; the memory store
// is the only durable trace of their effect.
type Action struct {
	Kind        ActionKind     `json:"kind"`
	Description string         `json:"description"`
	Priority    int            `json:"priority"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	Completed   bool           `json:"completed"`
}

type ResultStatus string

const (
	ResultSuccess       ResultStatus = "success"
	ResultInfo          ResultStatus = "info"
	ResultError         ResultStatus = "error"
	ResultUnknownAction ResultStatus = "unknown_action"
)

// ExecutionResult is the structured outcome of a single action execution.
type ExecutionResult struct {
	Kind    ActionKind     `json:"action_kind"`
	Status  ResultStatus   `json:"status"`
	Message string         `json:"message"`
	Payload map[string]any `json:"payload,omitempty"`
}

// ExecutedAction pairs a planned action with its execution outcome for the
// turn response.
type ExecutedAction struct {
	Kind        ActionKind      `json:"kind"`
	Description string          `json:"description"`
	Result      ExecutionResult `json:"result"`
}
