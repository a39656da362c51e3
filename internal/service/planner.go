package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/maternalab/gravida/internal/domain"
)

// Planner priorities. Higher is more urgent.
const (
	PriorityRoutine  = 1
	PriorityElevated = 2
	PriorityUrgent   = 3
)

// Planner maps the user's current state to a prioritized list of candidate
// actions. It is a pure function of its inputs: it never calls the executor
// and never mutates store state.
type Planner struct{}

func NewPlanner() *Planner {
	return &Planner{}
}

// Plan emits candidate actions in catalog order, then stable-sorts by
// priority descending, so equal priorities keep catalog registration order.
func (p *Planner) Plan(profile *domain.Profile, tc *domain.TurnContext) []domain.Action {
	if profile == nil {
		return nil
	}

	now := time.Now().UTC()
	var actions []domain.Action

	if profile.DocumentCount > 0 {
		actions = append(actions, domain.Action{
			Kind:        domain.ActionMedicalReview,
			Description: "Review uploaded medical documents",
			Priority:    PriorityRoutine,
			Metadata:    map[string]any{"review_type": "comprehensive"},
			CreatedAt:   now,
		})
	}

	if profile.PregnancyWeek > 0 {
		actions = append(actions, domain.Action{
			Kind:        domain.ActionPregnancyUpdate,
			Description: fmt.Sprintf("Update pregnancy information for week %d", profile.PregnancyWeek),
			Priority:    PriorityElevated,
			Metadata:    map[string]any{"pregnancy_week": profile.PregnancyWeek},
			CreatedAt:   now,
		})
	}

	if profile.PregnancyWeek > 0 {
		actions = append(actions, domain.Action{
			Kind:        domain.ActionEducation,
			Description: fmt.Sprintf("Provide education for pregnancy week %d", profile.PregnancyWeek),
			Priority:    PriorityElevated,
			Metadata:    map[string]any{"education_type": "weekly_info"},
			CreatedAt:   now,
		})
	}

	if tc != nil {
		if _, ok := tc.Metadata["symptoms"]; ok {
			actions = append(actions, domain.Action{
				Kind:        domain.ActionSymptomTracking,
				Description: "Track reported symptoms",
				Priority:    PriorityElevated,
				Metadata:    map[string]any{"tracking_type": "daily"},
				CreatedAt:   now,
			})
		}
		if _, ok := tc.Metadata["contraction_data"]; ok {
			actions = append(actions, domain.Action{
				Kind:        domain.ActionContractionTracking,
				Description: "Analyze reported contractions",
				Priority:    PriorityUrgent,
				Metadata:    map[string]any{"contraction_data": tc.Metadata["contraction_data"]},
				CreatedAt:   now,
			})
		}
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Priority > actions[j].Priority
	})
	return actions
}
