// Package content talks to the content-generation collaborator: one prompt
// per insight kind, each with a fixed default payload substituted whenever
// the model returns something that is not parseable JSON.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/maternalab/gravida/internal/domain"
)

// Provider constants
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// completer is the single-call surface a model backend has to offer.
type completer interface {
	complete(ctx context.Context, prompt string) (string, error)
}

// Client implements domain.ContentClient over any model backend.
type Client struct {
	backend completer
}

// NewClient creates a content client based on the provider name.
func NewClient(provider, apiKey, ollamaHost string, timeout time.Duration) (domain.ContentClient, error) {
	switch provider {
	case ProviderOllama:
		return &Client{backend: newOllamaBackend(ollamaHost, timeout)}, nil

	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI content provider")
		}
		return &Client{backend: newOpenAIBackend(apiKey, timeout)}, nil

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unknown content provider: %s (valid options: ollama, openai, mock)", provider)
	}
}

// Generate produces the structured mapping for kind. Transport errors are
// returned; a malformed model response is replaced with the kind's default
// mapping and no error.
func (c *Client) Generate(ctx context.Context, kind domain.InsightKind, payload map[string]any) (map[string]any, error) {
	prompt, err := buildPrompt(kind, payload)
	if err != nil {
		return nil, err
	}

	raw, err := c.backend.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseOrDefault(kind, raw), nil
}

// Enrich elaborates memory content into a more detailed statement. The
// response is free text, not JSON.
func (c *Client) Enrich(ctx context.Context, kind domain.MemoryKind, content string) (string, error) {
	prompt := fmt.Sprintf(enrichPrompt, kind, content)
	enriched, err := c.backend.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(enriched), nil
}

func buildPrompt(kind domain.InsightKind, payload map[string]any) (string, error) {
	tmpl, ok := prompts[kind]
	if !ok {
		return "", fmt.Errorf("no prompt registered for insight kind %q", kind)
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal insight payload: %w", err)
	}

	return fmt.Sprintf(tmpl, string(payloadJSON)), nil
}

// parseOrDefault extracts the JSON object from a model response, falling back
// to the kind's fixed default mapping when the response is unusable.
func parseOrDefault(kind domain.InsightKind, raw string) map[string]any {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var result map[string]any
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil || len(result) == 0 {
		return Defaults(kind)
	}
	return result
}
