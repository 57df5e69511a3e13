// Package narrative provides LLM-powered story generation. It defines a
// provider-agnostic LLM interface with a Gemini implementation on top of
// internal/genai, an OpenAI-compatible implementation, and a deterministic
// mock for testing. The generator consumes pre-assembled prompts and returns
// structured narrative objects.
package narrative

import (
	"context"
	"errors"
)

var (
	ErrLLMFailed     = errors.New("LLM request failed")
	ErrInvalidConfig = errors.New("invalid LLM configuration")
)

// Provider names an LLM backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// LLM defines the interface for interacting with language models.
// Implementations must be stateless and thread-safe.
type LLM interface {
	// Generate produces text from a prompt using the configured model.
	// Returns the generated text or an error if generation fails.
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMConfig holds common configuration options for LLM providers.
type LLMConfig struct {
	// Provider selects the backend (default: gemini)
	Provider Provider

	// Model specifies the model identifier (e.g., "gemini-1.5-flash")
	Model string

	// Temperature controls randomness (0.0 = model default, 2.0 = very random)
	Temperature float32

	// MaxTokens limits the response length (0 = use provider default)
	MaxTokens int

	// APIKey is the authentication key for the provider
	APIKey string

	// BaseURL is the API root (empty = provider default)
	BaseURL string
}

// DefaultLLMConfig returns sensible defaults for story generation.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Provider:    ProviderGemini,
		Model:       "gemini-1.5-flash",
		Temperature: 0, // model default
		MaxTokens:   2000,
	}
}
