package service

import (
	"context"
	"strings"
	"testing"

	"github.com/maternalab/gravida/internal/content"
	"github.com/maternalab/gravida/internal/domain"
	"go.uber.org/zap"
)

func TestDetectIntent(t *testing.T) {
	cases := []struct {
		message string
		want    Intent
	}{
		{"שלום", IntentGreeting},
		{"hello there", IntentGreeting},
		{"באיזה שבוע אני?", IntentPregnancyInfo},
		{"what week of pregnancy am I in", IntentPregnancyInfo},
		{"העליתי מסמך חדש", IntentMedicalDocuments},
		{"I got my ultrasound back", IntentMedicalDocuments},
		{"אפשר סקירה של התוצאות?", IntentMedicalReview},
		{"רציתי לקבוע תור לרופא", IntentAppointment},
		{"זה מצב חירום", IntentEmergency},
		{"יש לי צירים", IntentContractionTracking},
		{"קנית חומצה פולית?", IntentWeekCheck},
		{"מה שלומך", IntentGeneral},
	}
	for _, tc := range cases {
		if got := DetectIntent(tc.message); got != tc.want {
			t.Errorf("DetectIntent(%q) = %s, want %s", tc.message, got, tc.want)
		}
	}
}

func TestDetectIntentFirstRuleWins(t *testing.T) {
	// "שלום" greets even when other keywords appear later.
	if got := DetectIntent("שלום, יש לי צירים"); got != IntentGreeting {
		t.Errorf("expected greeting, got %s", got)
	}
	// "בדיקה" belongs to the documents rule, not review.
	if got := DetectIntent("עשיתי בדיקה"); got != IntentMedicalDocuments {
		t.Errorf("expected medical_documents, got %s", got)
	}
}

func TestExtractContractionInfo(t *testing.T) {
	cases := []struct {
		message  string
		duration int
		interval int
	}{
		{"הציר נמשך 2 דקות", 2, 0},
		{"contraction lasted 3 minutes", 3, 0},
		{"מרווח 10 דקות בין הצירים", 0, 10},
		{"הציר נמשך 2 דקות עם מרווח 8 דקות", 2, 8},
	}
	for _, tc := range cases {
		info := ExtractContractionInfo(tc.message)
		if info == nil {
			t.Errorf("ExtractContractionInfo(%q) = nil", tc.message)
			continue
		}
		if tc.duration > 0 && info["duration"] != tc.duration {
			t.Errorf("%q: duration = %v, want %d", tc.message, info["duration"], tc.duration)
		}
		if tc.interval > 0 && info["interval"] != tc.interval {
			t.Errorf("%q: interval = %v, want %d", tc.message, info["interval"], tc.interval)
		}
	}
}

func TestExtractContractionInfoNoData(t *testing.T) {
	if info := ExtractContractionInfo("יש לי צירים"); info != nil {
		t.Errorf("expected nil, got %v", info)
	}
}

func newResponder(documents *fakeDocumentStore, cc *content.MockClient) *Responder {
	return NewResponder(documents, cc, zap.NewNop())
}

func TestRespondGreetingUsesName(t *testing.T) {
	r := newResponder(&fakeDocumentStore{}, content.NewMockClient())
	profile := &domain.Profile{UserID: "u1", Name: "נועה"}

	got := r.Respond(context.Background(), "u1", "שלום", profile, &domain.TurnContext{}, nil)
	if !strings.Contains(got, "נועה") {
		t.Errorf("greeting should address the user by name: %q", got)
	}
}

func TestRespondPregnancyInfoIncludesTrimester(t *testing.T) {
	r := newResponder(&fakeDocumentStore{}, content.NewMockClient())
	profile := &domain.Profile{UserID: "u1", PregnancyWeek: 20}

	got := r.Respond(context.Background(), "u1", "באיזה שבוע הריון אני?", profile, &domain.TurnContext{}, nil)
	if !strings.Contains(got, "20") || !strings.Contains(got, "שני") {
		t.Errorf("expected week 20 and second trimester in response: %q", got)
	}
}

func TestRespondMedicalDocumentsCountsByType(t *testing.T) {
	docs := &fakeDocumentStore{}
	docs.docs = append(docs.docs,
		domain.MedicalDocument{UserID: "u1", Type: domain.DocumentBloodTest},
		domain.MedicalDocument{UserID: "u1", Type: domain.DocumentBloodTest},
		domain.MedicalDocument{UserID: "u1", Type: domain.DocumentUltrasound},
	)
	r := newResponder(docs, content.NewMockClient())

	got := r.Respond(context.Background(), "u1", "מה עם המסמך שלי", &domain.Profile{UserID: "u1"}, &domain.TurnContext{}, nil)
	if !strings.Contains(got, "3") {
		t.Errorf("expected total document count in response: %q", got)
	}
	if !strings.Contains(got, "2 blood_test") {
		t.Errorf("expected per-type counts in response: %q", got)
	}
}

func TestRespondContractionsAskForDetails(t *testing.T) {
	r := newResponder(&fakeDocumentStore{}, content.NewMockClient())

	got := r.Respond(context.Background(), "u1", "יש לי צירים", &domain.Profile{UserID: "u1"}, &domain.TurnContext{}, nil)
	if !strings.Contains(got, "כמה זמן") {
		t.Errorf("expected follow-up questions when no data extractable: %q", got)
	}
}

func TestRespondContractionsWithData(t *testing.T) {
	cc := content.NewMockClient()
	cc.GenerateResponse = map[string]any{"pattern": "דפוס לא סדיר", "recommendation": "פני לרופא"}
	r := newResponder(&fakeDocumentStore{}, cc)

	got := r.Respond(context.Background(), "u1", "יש לי צירים, כל ציר נמשך 2 דקות", &domain.Profile{UserID: "u1"}, &domain.TurnContext{}, nil)
	if !strings.Contains(got, "דפוס לא סדיר") {
		t.Errorf("expected generated pattern in response: %q", got)
	}
}

func TestRespondGeneralListsActions(t *testing.T) {
	r := newResponder(&fakeDocumentStore{}, content.NewMockClient())
	actions := []domain.Action{
		{Kind: domain.ActionMedicalReview, Description: "Review uploaded medical documents"},
		{Kind: domain.ActionEducation, Description: "Provide education"},
		{Kind: domain.ActionReminder, Description: "Create a reminder"},
	}

	got := r.Respond(context.Background(), "u1", "מה שלומך", &domain.Profile{UserID: "u1"}, &domain.TurnContext{}, actions)
	if !strings.Contains(got, "Review uploaded medical documents") {
		t.Errorf("expected first action description: %q", got)
	}
	if strings.Contains(got, "Create a reminder") {
		t.Errorf("only the top two actions should be offered: %q", got)
	}
}

func TestRespondEmergencyIncludesContact(t *testing.T) {
	r := newResponder(&fakeDocumentStore{}, content.NewMockClient())
	profile := &domain.Profile{UserID: "u1", EmergencyContact: "054-1234567"}

	got := r.Respond(context.Background(), "u1", "זה מצב חירום", profile, &domain.TurnContext{}, nil)
	if !strings.Contains(got, "054-1234567") {
		t.Errorf("expected emergency contact in response: %q", got)
	}
}
