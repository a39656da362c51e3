package embedding

import (
	"context"

	"github.com/maternalab/gravida/internal/domain"
)

// MockClient is a configurable embedding client for testing.
// Set Response/Err to control what Embed returns; calls are recorded.
type MockClient struct {
	Response []float32
	Err      error

	Calls []string
}

func NewMockClient() *MockClient {
	resp := make([]float32, domain.EmbeddingDim)
	for i := range resp {
		resp[i] = 0.1
	}
	return &MockClient{Response: resp}
}

func (c *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	c.Calls = append(c.Calls, text)
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Response, nil
}
