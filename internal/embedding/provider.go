package embedding

import (
	"errors"
	"fmt"
	"time"

	"github.com/maternalab/gravida/internal/domain"
)

// ErrUnavailable reports that the provider could not produce a vector.
// Retrieval callers fall back to recency ordering instead of propagating it.
var ErrUnavailable = errors.New("embedding provider unavailable")

// Provider constants
const (
	ProviderOpenAI = "openai"
	ProviderHash   = "hash"
	ProviderMock   = "mock"
)

// NewClient creates an embedding client based on the provider name.
// Returns an error if the provider is unknown or the API key is empty
// (except for hash and mock, which are keyless).
func NewClient(provider, apiKey string, timeout time.Duration) (domain.EmbeddingClient, error) {
	switch provider {
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI embedding provider")
		}
		return NewOpenAIClient(apiKey, timeout), nil

	case ProviderHash:
		return NewHashClient(), nil

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (valid options: openai, hash, mock)", provider)
	}
}
