package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/maternalab/gravida/internal/domain"
	"go.uber.org/zap"
)

// Intent is a coarse classification of an incoming message, used to pick a
// response template before any action runs.
type Intent string

const (
	IntentGreeting            Intent = "greeting"
	IntentPregnancyInfo       Intent = "pregnancy_info"
	IntentMedicalDocuments    Intent = "medical_documents"
	IntentMedicalReview       Intent = "medical_review"
	IntentAppointment         Intent = "appointment"
	IntentEmergency           Intent = "emergency"
	IntentContractionTracking Intent = "contraction_tracking"
	IntentWeekCheck           Intent = "pregnancy_week_check"
	IntentGeneral             Intent = "general"
)

// Canned responses. The product speaks Hebrew; keyword detection accepts
// Hebrew and English.
const (
	ResponseNeedsProfile = "אני לא מכיר אותך עדיין. אנא צור פרופיל משתמש תחילה."
	ResponseApology      = "מצטערת, נתקלתי בשגיאה בעיבוד ההודעה שלך. אנא נסה שוב."
	responseFallback     = "אני כאן כדי לעזור לך במסע ההריון שלך. איך אוכל לסייע לך היום?"
)

// intentRules are evaluated in order; the first rule with a matching keyword
// wins. Order matters because some keywords appear in more than one rule.
var intentRules = []struct {
	intent   Intent
	keywords []string
}{
	{IntentGreeting, []string{"שלום", "היי", "הי", "בוקר טוב", "ערב טוב", "hello", "hi", "hey"}},
	{IntentPregnancyInfo, []string{"הריון", "שבוע", "תאריך לידה", "עובר", "pregnancy", "week", "due date"}},
	{IntentMedicalDocuments, []string{"מסמך", "העלאה", "רפואי", "בדיקה", "ultrasound", "blood test", "document"}},
	{IntentMedicalReview, []string{"חוות דעת", "סקירה", "תוצאות", "review", "opinion", "results"}},
	{IntentAppointment, []string{"תור", "ביקור", "רופא", "appointment", "visit", "doctor"}},
	{IntentEmergency, []string{"חירום", "דחוף", "עזרה", "emergency", "urgent", "help"}},
	{IntentContractionTracking, []string{"צירים", "contractions", "ציר", "contraction"}},
	{IntentWeekCheck, []string{"ביצעת", "קנית", "test", "did you", "bought"}},
}

// DetectIntent classifies message by keyword lookup. Unmatched messages fall
// through to IntentGeneral.
func DetectIntent(message string) Intent {
	lower := strings.ToLower(message)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.intent
			}
		}
	}
	return IntentGeneral
}

var (
	contractionDurationRe = regexp.MustCompile(`(\d+)\s*(?:דקות?|minutes?)`)
	contractionIntervalRe = regexp.MustCompile(`(?:מרווח|interval)\s*(\d+)\s*(?:דקות?|minutes?)`)
)

// ExtractContractionInfo pulls duration and interval minutes out of free
// text. Returns nil when neither appears.
func ExtractContractionInfo(message string) map[string]any {
	info := map[string]any{}
	if m := contractionIntervalRe.FindStringSubmatch(message); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			info["interval"] = n
		}
	}
	// Strip the interval clause first so its number is not also read as a
	// duration.
	rest := contractionIntervalRe.ReplaceAllString(message, "")
	if m := contractionDurationRe.FindStringSubmatch(rest); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			info["duration"] = n
		}
	}
	if len(info) == 0 {
		return nil
	}
	return info
}

// Responder renders the user-visible reply for a turn. Collaborator failures
// never surface as errors; each template has a degraded form.
type Responder struct {
	documents domain.DocumentStore
	content   domain.ContentClient
	logger    *zap.Logger
}

func NewResponder(documents domain.DocumentStore, cc domain.ContentClient, logger *zap.Logger) *Responder {
	return &Responder{documents: documents, content: cc, logger: logger}
}

// Respond picks a reply for message given the turn's profile, context and
// planned actions.
func (r *Responder) Respond(ctx context.Context, userID, message string, profile *domain.Profile, tc *domain.TurnContext, actions []domain.Action) string {
	switch DetectIntent(message) {
	case IntentGreeting:
		return r.greeting(profile)
	case IntentPregnancyInfo:
		return r.pregnancyInfo(profile)
	case IntentMedicalDocuments:
		return r.medicalDocumentsInfo(ctx, userID)
	case IntentMedicalReview:
		return r.medicalReview(ctx, userID, message)
	case IntentAppointment:
		return "אני יכול לעזור לך לתאם תורים ולנהל את הטיפול הטרום לידתי. איזה סוג תור תרצי לתאם?"
	case IntentEmergency:
		return r.emergency(profile)
	case IntentContractionTracking:
		return r.contractionTracking(ctx, userID, message)
	case IntentWeekCheck:
		return r.weekCheck(ctx, profile)
	default:
		return r.general(message, actions)
	}
}

func (r *Responder) greeting(profile *domain.Profile) string {
	if profile != nil && profile.Name != "" {
		return fmt.Sprintf("שלום %s! אני הסוכן שלך למעקב הריון. איך את מרגישה היום?", profile.Name)
	}
	return "שלום! אני הסוכן שלך למעקב הריון. איך אוכל לעזור לך היום?"
}

func (r *Responder) pregnancyInfo(profile *domain.Profile) string {
	if profile == nil {
		return "אני לא מכיר את פרטי ההריון שלך עדיין. אנא עדכן את הפרופיל עם תאריך הלידה הצפוי או תאריך הווסת האחרונה."
	}
	if profile.PregnancyWeek <= 0 {
		return "אני לא מכיר את שבוע ההריון הנוכחי שלך. אנא עדכן את הפרופיל עם תאריך הלידה הצפוי או תאריך הווסת האחרונה."
	}

	var trimester string
	switch domain.TrimesterForWeek(profile.PregnancyWeek) {
	case domain.TrimesterFirst:
		trimester = "ראשון"
	case domain.TrimesterSecond:
		trimester = "שני"
	default:
		trimester = "שלישי"
	}
	return fmt.Sprintf("את נמצאת בשבוע %d להריון (טרימסטר %s). זה זמן מרגש! האם יש משהו ספציפי שתרצי לדעת על השבוע הזה?", profile.PregnancyWeek, trimester)
}

func (r *Responder) medicalDocumentsInfo(ctx context.Context, userID string) string {
	docs, err := r.documents.List(ctx, userID)
	if err != nil {
		r.logger.Warn("listing documents for response failed", zap.Error(err))
		return "יש לי בעיה לגשת למסמכים הרפואיים שלך כרגע. אנא נסה שוב מאוחר יותר."
	}
	if len(docs) == 0 {
		return "עדיין לא העלית מסמכים רפואיים. את יכולה להעלות בדיקות דם, אולטרסאונד, הערות רופא ומרשמים דרך מדור המסמכים הרפואיים."
	}

	counts := map[domain.DocumentType]int{}
	order := make([]domain.DocumentType, 0, len(docs))
	for _, d := range docs {
		if _, seen := counts[d.Type]; !seen {
			order = append(order, d.Type)
		}
		counts[d.Type]++
	}
	parts := make([]string, 0, len(order))
	for _, t := range order {
		parts = append(parts, fmt.Sprintf("%d %s", counts[t], t))
	}
	return fmt.Sprintf("העלית %d מסמכים רפואיים: %s. האם תרצי שאסקור אותם עבורך?", len(docs), strings.Join(parts, ", "))
}

func (r *Responder) medicalReview(ctx context.Context, userID, message string) string {
	docs, err := r.documents.List(ctx, userID)
	if err != nil {
		r.logger.Warn("listing documents for review response failed", zap.Error(err))
		return "יש לי בעיה ליצור סקירה רפואית כרגע. אנא נסה שוב מאוחר יותר."
	}
	if len(docs) == 0 {
		return "אין לך מסמכים רפואיים לסקירה. אנא העלה מסמכים תחילה."
	}

	summaries := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, map[string]any{"type": d.Type, "summary": d.Summary})
	}
	review, err := r.content.Generate(ctx, domain.InsightMedicalReview, map[string]any{
		"user_id":   userID,
		"documents": summaries,
		"message":   message,
	})
	if err != nil {
		r.logger.Warn("medical review generation failed", zap.Error(err))
		return "יש לי בעיה ליצור סקירה רפואית כרגע. אנא נסה שוב מאוחר יותר."
	}
	return fmt.Sprintf("סקירה רפואית: %s. %s",
		payloadString(review, "summary", "המסמכים נבדקו"),
		payloadString(review, "recommendations", "המשך מעקב שגרתי"))
}

func (r *Responder) emergency(profile *domain.Profile) string {
	if profile != nil && profile.EmergencyContact != "" {
		return fmt.Sprintf("אם את חווה מצב חירום, אנא פני מיד לרופא המטפל. פרטי קשר חירום: %s", profile.EmergencyContact)
	}
	return "אם את חווה מצב חירום, אנא פני מיד לרופא המטפל או לחדר המיון הקרוב."
}

func (r *Responder) contractionTracking(ctx context.Context, userID, message string) string {
	info := ExtractContractionInfo(message)
	if info == nil {
		return "אני יכול לעזור לך לעקוב אחר הצירים. אנא ספרי לי:\n- כמה זמן נמשך כל ציר?\n- מה המרווח בין הצירים?\n- מתי התחילו?"
	}

	analysis, err := r.content.Generate(ctx, domain.InsightContractionAnalysis, map[string]any{
		"user_id":          userID,
		"contraction_data": info,
		"message":          message,
	})
	if err != nil {
		r.logger.Warn("contraction analysis generation failed", zap.Error(err))
		return "יש לי בעיה לעקוב אחר הצירים כרגע. אנא נסה שוב."
	}
	return fmt.Sprintf("ניתוח צירים: %s. %s",
		payloadString(analysis, "pattern", "דפוס תקין"),
		payloadString(analysis, "recommendation", "המשך מעקב"))
}

func (r *Responder) weekCheck(ctx context.Context, profile *domain.Profile) string {
	if profile == nil || profile.PregnancyWeek <= 0 {
		return "אני לא מכיר את שבוע ההריון שלך. אנא עדכן את הפרופיל."
	}

	insights, err := r.content.Generate(ctx, domain.InsightPregnancyWeek, map[string]any{
		"user_id": profile.UserID,
		"week":    profile.PregnancyWeek,
	})
	if err != nil {
		r.logger.Warn("week insight generation failed", zap.Error(err))
		insights = nil
	}
	return fmt.Sprintf("בשבוע %d להריון: %s. %s",
		profile.PregnancyWeek,
		payloadString(insights, "week_summary", "המשך מעקב שגרתי"),
		payloadString(insights, "recommendations", ""))
}

func (r *Responder) general(message string, actions []domain.Action) string {
	if len(actions) == 0 {
		return "אני כאן לתמוך בך לאורך כל מסע ההריון. אני יכול לעזור לך בניהול מסמכים רפואיים, מעקב הריון, תזמון תורים ועוד. מה תרצי לדעת?"
	}
	n := len(actions)
	if n > 2 {
		n = 2
	}
	descriptions := make([]string, 0, n)
	for _, a := range actions[:n] {
		descriptions = append(descriptions, a.Description)
	}
	return fmt.Sprintf("אני מבין שאת שואלת על '%s'. אני יכול לעזור לך עם: %s. במה תרצי להתמקד?", message, strings.Join(descriptions, ", "))
}

func payloadString(m map[string]any, key, fallback string) string {
	if m == nil {
		return fallback
	}
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
