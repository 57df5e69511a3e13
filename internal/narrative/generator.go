package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrGenerationFailed wraps every error returned by a Generator.
var ErrGenerationFailed = errors.New("narrative generation failed")

// Narrative is a generated story together with what it was written from.
type Narrative struct {
	// Topic is empty when the story came from a raw prompt
	Topic string `json:"topic,omitempty"`

	// Prompt is the exact prompt sent to the model
	Prompt string `json:"prompt"`

	// Sources lists the documents whose excerpts were in the prompt
	Sources []string `json:"sources,omitempty"`

	Text        string        `json:"text"`
	Model       string        `json:"model"`
	GeneratedAt time.Time     `json:"generated_at"`
	Elapsed     time.Duration `json:"elapsed"`
}

// WordCount returns the number of whitespace separated words in the story.
func (n *Narrative) WordCount() int {
	return len(strings.Fields(n.Text))
}

// Generator writes stories with an LLM.
type Generator struct {
	llm   LLM
	model string
	now   func() time.Time
}

// NewGenerator returns a Generator that labels its stories with config.Model.
func NewGenerator(llm LLM, config LLMConfig) *Generator {
	return &Generator{llm: llm, model: config.Model, now: time.Now}
}

// Tell writes a story about topic, offering chunks to the model as reference
// material. chunks may be empty.
func (g *Generator) Tell(ctx context.Context, topic string, chunks []ContextChunk) (*Narrative, error) {
	prompt, err := AssemblePrompt(topic, chunks)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	narr, err := g.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	narr.Topic = strings.TrimSpace(topic)
	narr.Sources = sourceIDs(chunks)
	return narr, nil
}

// Generate runs the LLM on a prompt that is already assembled.
func (g *Generator) Generate(ctx context.Context, prompt string) (*Narrative, error) {
	switch {
	case g.llm == nil:
		return nil, fmt.Errorf("%w: LLM is required", ErrGenerationFailed)
	case strings.TrimSpace(prompt) == "":
		return nil, fmt.Errorf("%w: prompt is required", ErrGenerationFailed)
	}

	start := g.now()
	text, err := g.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: model returned no text", ErrGenerationFailed)
	}
	done := g.now()

	return &Narrative{
		Prompt:      prompt,
		Text:        text,
		Model:       g.model,
		GeneratedAt: done,
		Elapsed:     done.Sub(start),
	}, nil
}

// sourceIDs returns the distinct document IDs of chunks in first-seen order.
func sourceIDs(chunks []ContextChunk) []string {
	if len(chunks) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(chunks))
	ids := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		if ch.DocID == "" || seen[ch.DocID] {
			continue
		}
		seen[ch.DocID] = true
		ids = append(ids, ch.DocID)
	}
	return ids
}
