package content

import (
	"context"
	"errors"
	"testing"

	"github.com/maternalab/gravida/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend returns canned completions.
type stubBackend struct {
	response string
	err      error
}

func (s *stubBackend) complete(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

func TestGenerate_ParsesWellFormedJSON(t *testing.T) {
	c := &Client{backend: &stubBackend{response: `{"summary":"all clear","urgency":"low"}`}}

	got, err := c.Generate(context.Background(), domain.InsightMedicalReview, map[string]any{"user_id": "u1"})
	require.NoError(t, err)
	assert.Equal(t, "all clear", got["summary"])
	assert.Equal(t, "low", got["urgency"])
}

func TestGenerate_StripsCodeFences(t *testing.T) {
	c := &Client{backend: &stubBackend{response: "```json\n{\"title\":\"week 20\"}\n```"}}

	got, err := c.Generate(context.Background(), domain.InsightEducation, nil)
	require.NoError(t, err)
	assert.Equal(t, "week 20", got["title"])
}

func TestGenerate_MalformedResponseFallsBackToDefault(t *testing.T) {
	c := &Client{backend: &stubBackend{response: "I could not produce JSON, sorry!"}}

	got, err := c.Generate(context.Background(), domain.InsightContractionAnalysis, nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(domain.InsightContractionAnalysis), got)
}

func TestGenerate_EmptyObjectFallsBackToDefault(t *testing.T) {
	c := &Client{backend: &stubBackend{response: "{}"}}

	got, err := c.Generate(context.Background(), domain.InsightReminder, nil)
	require.NoError(t, err)
	assert.Equal(t, "daily", got["frequency"])
}

func TestGenerate_TransportErrorPropagates(t *testing.T) {
	backendErr := errors.New("connection refused")
	c := &Client{backend: &stubBackend{err: backendErr}}

	_, err := c.Generate(context.Background(), domain.InsightMedicalReview, nil)
	assert.ErrorIs(t, err, backendErr)
}

func TestGenerate_UnknownKind(t *testing.T) {
	c := &Client{backend: &stubBackend{response: "{}"}}

	_, err := c.Generate(context.Background(), domain.InsightKind("horoscope"), nil)
	assert.Error(t, err)
}

func TestDefaults_CoverEveryPromptKind(t *testing.T) {
	for kind := range prompts {
		assert.NotEmpty(t, Defaults(kind), "kind %s has no default mapping", kind)
	}
}

func TestDefaults_ReturnsCopy(t *testing.T) {
	a := Defaults(domain.InsightEmergency)
	a["when_to_call"] = "mutated"
	b := Defaults(domain.InsightEmergency)
	assert.Equal(t, "Severe symptoms", b["when_to_call"])
}

func TestEnrich(t *testing.T) {
	c := &Client{backend: &stubBackend{response: "  a richer statement  "}}

	got, err := c.Enrich(context.Background(), domain.MemoryKindMedical, "blood test done")
	require.NoError(t, err)
	assert.Equal(t, "a richer statement", got)
}

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient("bard", "", "", 0)
	assert.Error(t, err)
}

func TestNewClient_OpenAIRequiresKey(t *testing.T) {
	_, err := NewClient(ProviderOpenAI, "", "", 0)
	assert.Error(t, err)
}
