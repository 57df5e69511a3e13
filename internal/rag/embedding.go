// Package rag embeds documents with the Gemini embedding endpoints, stores
// them in Milvus and retrieves the most similar ones for a query.
package rag

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Yates-Labs/gaia/internal/content"
	"github.com/Yates-Labs/gaia/internal/genai"
)

// Common errors for embedding operations
var (
	ErrEmptyTexts      = errors.New("no texts provided for embedding")
	ErrMissingAPIKey   = errors.New("GEMINI_API_KEY environment variable not set")
	ErrEmbeddingFailed = errors.New("embedding generation failed")
)

// EmbeddingRecord represents a single text embedding with metadata
type EmbeddingRecord struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
	Model     string    `json:"model"`
}

// Embedder defines the interface for generating text embeddings
type Embedder interface {
	// Embed generates embeddings for the provided texts
	Embed(ctx context.Context, texts []string) ([]EmbeddingRecord, error)

	// GetModel returns the embedding model identifier
	GetModel() string

	// GetDimension returns the embedding vector dimension
	GetDimension() int
}

// GeminiEmbedder implements the Embedder interface with batchEmbedContents
type GeminiEmbedder struct {
	batchEmbed genai.Func
	model      string
	dimension  int
}

// NewGeminiEmbedder creates a new embedder. An empty apiKey falls back to
// GEMINI_API_KEY.
func NewGeminiEmbedder(apiKey, model string, dimension int, opts ...genai.Option) (*GeminiEmbedder, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dimension)
	}

	api := genai.NewMethods(apiKey, opts...)

	return &GeminiEmbedder{
		batchEmbed: api.BatchEmbedContents,
		model:      model,
		dimension:  dimension,
	}, nil
}

// GetModel returns the embedding model identifier
func (e *GeminiEmbedder) GetModel() string {
	return e.model
}

// GetDimension returns the embedding vector dimension
func (e *GeminiEmbedder) GetDimension() int {
	return e.dimension
}

// Embed generates embeddings for the provided texts in one batch request
func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([]EmbeddingRecord, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyTexts
	}

	body := content.BatchEmbedRequest(e.model, texts)
	for i := range body.Requests {
		body.Requests[i].OutputDimensionality = e.dimension
	}

	resp, err := e.batchEmbed(ctx, genai.Params{Model: e.model, Body: body})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}

	var out content.BatchEmbedContentsResponse
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", ErrEmbeddingFailed, len(texts), len(out.Embeddings))
	}

	records := make([]EmbeddingRecord, len(out.Embeddings))
	for i, emb := range out.Embeddings {
		if len(emb.Values) != e.dimension {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidDimension, e.dimension, len(emb.Values))
		}
		records[i] = EmbeddingRecord{
			Text:      texts[i],
			Embedding: emb.Values,
			Index:     i,
			Model:     e.model,
		}
	}

	return records, nil
}
