package domain

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocumentBloodTest   DocumentType = "blood_test"
	DocumentUltrasound  DocumentType = "ultrasound"
	DocumentUrineTest   DocumentType = "urine_test"
	DocumentGeneticTest DocumentType = "genetic_test"
	DocumentOther       DocumentType = "other"
)

// MedicalDocument is a summary of an uploaded document. Content extraction
// happens elsewhere; the core only reads these summaries.
type MedicalDocument struct {
	ID         uuid.UUID      `json:"id"`
	UserID     string         `json:"user_id"`
	Type       DocumentType   `json:"type"`
	FileName   string         `json:"file_name"`
	Summary    string         `json:"summary,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	UploadedAt time.Time      `json:"uploaded_at"`
}

// Profile is the per-user document the planner reads. Updates are
// last-writer-wins on the whole document.
type Profile struct {
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
	DocumentCount     int        `json:"document_count"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ProfileUpdate carries partial profile fields. Nil means "leave unchanged".
type ProfileUpdate struct {
	Name             *string    `json:"name,omitempty"`
	PregnancyWeek    *int       `json:"pregnancy_week,omitempty"`
	LMPDate          *time.Time `json:"lmp_date,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	BloodType        *string    `json:"blood_type,omitempty"`
	MedicalConditions []string  `json:"medical_conditions,omitempty"`
	Allergies         []string  `json:"allergies,omitempty"`
	Medications       []string  `json:"medications,omitempty"`
	EmergencyContact *string    `json:"emergency_contact,omitempty"`
}

const (
	MinPregnancyWeek = 1
	MaxPregnancyWeek = 42
)

type Trimester int

const (
	TrimesterUnknown Trimester = 0
	TrimesterFirst   Trimester = 1
	TrimesterSecond  Trimester = 2
	TrimesterThird   Trimester = 3
)

// TrimesterForWeek classifies a pregnancy week: weeks 1-13 first, 14-26
// second, 27+ third.
func TrimesterForWeek(week int) Trimester {
	switch {
	case week < MinPregnancyWeek:
		return TrimesterUnknown
	case week <= 13:
		return TrimesterFirst
	case week <= 26:
		return TrimesterSecond
	default:
		return TrimesterThird
	}
}

// PregnancyWeekFromLMP derives the current week from the last menstrual
// period date, clamped to the valid range.
func PregnancyWeekFromLMP(lmp time.Time, now time.Time) int {
	week := int(now.Sub(lmp).Hours() / 24 / 7)
	if week < MinPregnancyWeek {
		return MinPregnancyWeek
	}
	if week > MaxPregnancyWeek {
		return MaxPregnancyWeek
	}
	return week
}
