package content

import "github.com/maternalab/gravida/internal/domain"

const enrichPrompt = `Enhance this %s memory so it is more detailed and informative.
Memory content: %s

Respond with ONLY the enhanced content. No explanation, no formatting.`

var prompts = map[domain.InsightKind]string{
	domain.InsightMedicalReview: `Review the medical documents described below for a pregnant patient.
Input: %s

Respond ONLY with JSON, no markdown:
{"summary":"...","findings":"...","recommendations":"...","urgency":"low|medium|high","next_steps":"..."}`,

	domain.InsightPregnancyWeek: `Provide insights for the pregnancy week described below.
Input: %s

Respond ONLY with JSON, no markdown:
{"week_summary":"...","symptoms":"...","recommendations":"...","tests":"...","tips":"..."}`,

	domain.InsightEducation: `Generate pregnancy education content for the week described below.
Input: %s

Respond ONLY with JSON, no markdown:
{"title":"...","content":"...","key_points":["..."],"resources":["..."]}`,

	domain.InsightContractionAnalysis: `Analyze the contraction data below.
Input: %s

Respond ONLY with JSON, no markdown:
{"pattern":"...","intensity":"...","frequency":"...","recommendation":"...","urgency":"low|medium|high"}`,

	domain.InsightAppointment: `Generate appointment scheduling recommendations for the request below.
Input: %s

Respond ONLY with JSON, no markdown:
{"timing":"...","preparation":"...","questions":["..."],"follow_up":"..."}`,

	domain.InsightDocumentUpload: `Generate document upload recommendations for the request below.
Input: %s

Respond ONLY with JSON, no markdown:
{"priority":"...","format":"...","metadata":["..."],"processing":"..."}`,

	domain.InsightReminder: `Generate reminder settings for the request below.
Input: %s

Respond ONLY with JSON, no markdown:
{"frequency":"...","timing":"...","method":"...","content":"..."}`,

	domain.InsightEmergency: `Generate emergency guidance for the pregnant user described below.
Input: %s

Respond ONLY with JSON, no markdown:
{"when_to_call":"...","symptoms":["..."],"actions":["..."],"contacts":["..."]}`,

	domain.InsightSymptomAnalysis: `Analyze the symptom tracking request below.
Input: %s

Respond ONLY with JSON, no markdown:
{"pattern":"...","severity":"...","triggers":["..."],"recommendations":"..."}`,

	domain.InsightConversationAnalysis: `Analyze this conversation turn between a pregnant user and her companion agent.
Input: %s

Respond ONLY with JSON, no markdown:
{"intent":"...","sentiment":"...","topics":["..."],"action_needed":false,"follow_up":"..."}`,

	domain.InsightMemorySummary: `Summarize the user memories described below into a short profile of what matters to this user.
Input: %s

Respond ONLY with JSON, no markdown:
{"summary":"...","themes":["..."]}`,
}

// defaults holds the fixed per-kind mapping substituted when the collaborator
// produces unusable output. Values mirror the behavior of a cautious human
// answer: generic, safe, always deferring to the healthcare provider.
var defaults = map[domain.InsightKind]map[string]any{
	domain.InsightMedicalReview: {
		"summary":         "Medical documents reviewed",
		"findings":        "No significant findings",
		"recommendations": "Continue regular monitoring",
		"urgency":         "low",
		"next_steps":      "Follow up with healthcare provider",
	},
	domain.InsightPregnancyWeek: {
		"week_summary":    "Routine pregnancy week",
		"symptoms":        "Common pregnancy symptoms",
		"recommendations": "Follow healthcare provider advice",
		"tests":           "Regular prenatal care",
		"tips":            "Rest and maintain healthy lifestyle",
	},
	domain.InsightEducation: {
		"title":      "Weekly pregnancy education",
		"content":    "Educational content for this pregnancy week",
		"key_points": []any{"Regular prenatal care", "Healthy lifestyle", "Rest"},
		"resources":  []any{"Healthcare provider", "Pregnancy books"},
	},
	domain.InsightContractionAnalysis: {
		"pattern":        "Regular contractions",
		"intensity":      "Moderate",
		"frequency":      "Normal",
		"recommendation": "Continue monitoring",
		"urgency":        "low",
	},
	domain.InsightAppointment: {
		"timing":      "As soon as possible",
		"preparation": "Bring medical documents",
		"questions":   []any{"Current symptoms", "Medications", "Concerns"},
		"follow_up":   "Schedule follow-up appointment",
	},
	domain.InsightDocumentUpload: {
		"priority":   "high",
		"format":     "PDF",
		"metadata":   []any{"date", "type", "provider"},
		"processing": "Standard processing",
	},
	domain.InsightReminder: {
		"frequency": "daily",
		"timing":    "morning",
		"method":    "app_notification",
		"content":   "Daily pregnancy reminder",
	},
	domain.InsightEmergency: {
		"when_to_call": "Severe symptoms",
		"symptoms":     []any{"Severe pain", "Bleeding", "High fever"},
		"actions":      []any{"Call healthcare provider", "Go to emergency room"},
		"contacts":     []any{},
	},
	domain.InsightSymptomAnalysis: {
		"pattern":         "Regular symptoms",
		"severity":        "Mild",
		"triggers":        []any{"Normal pregnancy changes"},
		"recommendations": "Continue monitoring",
	},
	domain.InsightConversationAnalysis: {
		"intent":        "general",
		"sentiment":     "neutral",
		"topics":        []any{"pregnancy"},
		"action_needed": false,
		"follow_up":     "continue_conversation",
	},
	domain.InsightMemorySummary: {
		"summary": "Not enough information to summarize",
		"themes":  []any{"pregnancy"},
	},
}

// Defaults returns a copy of the fixed default mapping for kind.
func Defaults(kind domain.InsightKind) map[string]any {
	d, ok := defaults[kind]
	if !ok {
		return map[string]any{}
	}
	out := make(map[string]any, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
