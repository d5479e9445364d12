package providers

import (
	"context"
	"fmt"
)

// ReviewRequest contains the prompts sent to a provider for one review.
type ReviewRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// ReviewResponse contains the raw response from a provider.
type ReviewResponse struct {
	Content    string
	TokensUsed int
}

// Reviewer is the provider abstraction interface.
type Reviewer interface {
	Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error)
	Name() string
}

// New creates a provider by name. Credentials are passed in by the caller;
// providers never read ambient state beyond optional base-URL overrides.
func New(provider, model, apiKey string) (Reviewer, error) {
	switch provider {
	case "anthropic":
		return NewAnthropic(model, apiKey)
	case "openai":
		return NewOpenAI(model, apiKey)
	case "gemini", "google":
		return NewGemini(model, apiKey)
	case "ollama", "lmstudio":
		return NewOllama(model, apiKey)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
