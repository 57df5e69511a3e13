package narrative

import (
	"context"
	"fmt"
	"os"

	"github.com/Yates-Labs/gaia/internal/content"
	"github.com/Yates-Labs/gaia/internal/genai"
)

// GeminiLLM implements the LLM interface with the generateContent endpoint.
type GeminiLLM struct {
	generate genai.Func
	config   LLMConfig
}

// NewGeminiLLM creates a Gemini-backed LLM. opts are passed to the
// underlying method table.
func NewGeminiLLM(config LLMConfig, opts ...genai.Option) (*GeminiLLM, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key (set GEMINI_API_KEY or provide in config)", ErrInvalidConfig)
	}
	if config.Model == "" {
		return nil, fmt.Errorf("%w: missing model name", ErrInvalidConfig)
	}

	opts = append([]genai.Option{genai.WithBaseURL(config.BaseURL)}, opts...)
	api := genai.NewMethods(apiKey, opts...)

	return &GeminiLLM{
		generate: api.GenerateContent,
		config:   config,
	}, nil
}

// Generate sends the prompt to generateContent and returns the first candidate's text.
func (g *GeminiLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt cannot be empty", ErrInvalidConfig)
	}

	req := content.TextRequest(prompt)
	if g.config.Temperature > 0 || g.config.MaxTokens > 0 {
		gc := &content.GenerationConfig{MaxOutputTokens: g.config.MaxTokens}
		if g.config.Temperature > 0 {
			temp := float64(g.config.Temperature)
			gc.Temperature = &temp
		}
		req.GenerationConfig = gc
	}

	resp, err := g.generate(ctx, genai.Params{Model: g.config.Model, Body: req})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLLMFailed, err)
	}

	var out content.GenerateContentResponse
	if err := resp.Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %w", ErrLLMFailed, err)
	}

	text, err := out.Text()
	if err != nil {
		return "", fmt.Errorf("%w: no response generated", ErrLLMFailed)
	}
	return text, nil
}
