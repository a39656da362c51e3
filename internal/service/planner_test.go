package service

import (
	"sort"
	"testing"
	"time"

	"github.com/maternalab/gravida/internal/domain"
)

func TestPlanNilProfile(t *testing.T) {
	p := NewPlanner()
	if actions := p.Plan(nil, &domain.TurnContext{}); actions != nil {
		t.Fatalf("expected nil actions for nil profile, got %v", actions)
	}
}

func TestPlanEmptyProfile(t *testing.T) {
	p := NewPlanner()
	actions := p.Plan(&domain.Profile{UserID: "u1"}, &domain.TurnContext{})
	if len(actions) != 0 {
		t.Fatalf("expected no actions for empty profile, got %d", len(actions))
	}
}

func TestPlanDocumentsTriggerReview(t *testing.T) {
	p := NewPlanner()
	actions := p.Plan(&domain.Profile{UserID: "u1", DocumentCount: 2}, &domain.TurnContext{})

	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	if actions[0].Kind != domain.ActionMedicalReview {
		t.Errorf("expected medical_review, got %s", actions[0].Kind)
	}
	if actions[0].Priority != PriorityRoutine {
		t.Errorf("expected priority %d, got %d", PriorityRoutine, actions[0].Priority)
	}
}

func TestPlanPregnancyWeekTriggersUpdateAndEducation(t *testing.T) {
	p := NewPlanner()
	actions := p.Plan(&domain.Profile{UserID: "u1", PregnancyWeek: 20}, &domain.TurnContext{})

	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
	if actions[0].Kind != domain.ActionPregnancyUpdate || actions[1].Kind != domain.ActionEducation {
		t.Errorf("unexpected kinds: %s, %s", actions[0].Kind, actions[1].Kind)
	}
}

func TestPlanPriorityOrdering(t *testing.T) {
	p := NewPlanner()
	profile := &domain.Profile{UserID: "u1", PregnancyWeek: 30, DocumentCount: 1}
	tc := &domain.TurnContext{Metadata: map[string]any{
		"symptoms":         "cramps",
		"contraction_data": map[string]any{"duration": 5},
	}}

	actions := p.Plan(profile, tc)
	if len(actions) != 5 {
		t.Fatalf("expected 5 actions, got %d", len(actions))
	}

	// Sorted by priority descending.
	if !sort.SliceIsSorted(actions, func(i, j int) bool {
		return actions[i].Priority > actions[j].Priority
	}) {
		t.Errorf("actions not sorted by priority: %+v", actions)
	}
	if actions[0].Kind != domain.ActionContractionTracking {
		t.Errorf("expected contraction_tracking first, got %s", actions[0].Kind)
	}
	if actions[len(actions)-1].Kind != domain.ActionMedicalReview {
		t.Errorf("expected medical_review last, got %s", actions[len(actions)-1].Kind)
	}

	// Equal priorities keep emission order.
	var elevated []domain.ActionKind
	for _, a := range actions {
		if a.Priority == PriorityElevated {
			elevated = append(elevated, a.Kind)
		}
	}
	want := []domain.ActionKind{domain.ActionPregnancyUpdate, domain.ActionEducation, domain.ActionSymptomTracking}
	if len(elevated) != len(want) {
		t.Fatalf("expected %d elevated actions, got %d", len(want), len(elevated))
	}
	for i := range want {
		if elevated[i] != want[i] {
			t.Errorf("elevated[%d]: expected %s, got %s", i, want[i], elevated[i])
		}
	}
}

func TestPlanIsPure(t *testing.T) {
	p := NewPlanner()
	profile := &domain.Profile{UserID: "u1", PregnancyWeek: 12, DocumentCount: 1, CreatedAt: time.Now()}
	tc := &domain.TurnContext{Metadata: map[string]any{"symptoms": "nausea"}}

	first := p.Plan(profile, tc)
	second := p.Plan(profile, tc)

	if len(first) != len(second) {
		t.Fatalf("plan lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Kind != second[i].Kind || first[i].Priority != second[i].Priority {
			t.Errorf("plan %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
	if profile.PregnancyWeek != 12 || profile.DocumentCount != 1 {
		t.Errorf("profile mutated by planning")
	}
}
