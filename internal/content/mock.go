package content

import (
	"context"

	"github.com/maternalab/gravida/internal/domain"
)

// MockClient is a configurable content client for testing.
// Set the response fields to control what each method returns.
type MockClient struct {
	GenerateResponse map[string]any
	GenerateErr      error
	EnrichResponse   string
	EnrichErr        error

	// Call tracking for assertions
	GenerateCalls []domain.InsightKind
	EnrichCalls   []string
}

func NewMockClient() *MockClient {
	return &MockClient{
		EnrichResponse: "mock enriched content",
	}
}

func (c *MockClient) Generate(ctx context.Context, kind domain.InsightKind, payload map[string]any) (map[string]any, error) {
	c.GenerateCalls = append(c.GenerateCalls, kind)
	if c.GenerateErr != nil {
		return nil, c.GenerateErr
	}
	if c.GenerateResponse != nil {
		return c.GenerateResponse, nil
	}
	return Defaults(kind), nil
}

func (c *MockClient) Enrich(ctx context.Context, kind domain.MemoryKind, content string) (string, error) {
	c.EnrichCalls = append(c.EnrichCalls, content)
	if c.EnrichErr != nil {
		return "", c.EnrichErr
	}
	return c.EnrichResponse, nil
}
