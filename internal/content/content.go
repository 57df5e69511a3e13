// Package content holds typed request bodies and response views for the
// generateContent, countTokens and embedding endpoints. It sits above
// internal/genai, which treats every payload as opaque JSON.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoCandidates = errors.New("response contains no candidate text")
	ErrEmptyText    = errors.New("text cannot be empty")
)

// Part is one piece of a Content. Only text parts are modelled.
type Part struct {
	Text string `json:"text,omitempty"`
}

// Content is a role-tagged list of parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig carries optional sampling settings.
type GenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

// GenerateContentRequest is the body of generateContent, streamGenerateContent
// and countTokens.
type GenerateContentRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// TextRequest builds a single-turn request for prompt.
func TextRequest(prompt string) GenerateContentRequest {
	return GenerateContentRequest{
		Contents: []Content{{Parts: []Part{{Text: prompt}}}},
	}
}

// EmbedContentRequest is the body of embedContent.
type EmbedContentRequest struct {
	// Model is only set inside batch requests, as "models/<name>".
	Model   string  `json:"model,omitempty"`
	Content Content `json:"content"`

	// OutputDimensionality truncates the embedding on models that support it.
	OutputDimensionality int `json:"outputDimensionality,omitempty"`
}

// EmbedRequest builds an embedContent body for text.
func EmbedRequest(text string) EmbedContentRequest {
	return EmbedContentRequest{Content: Content{Parts: []Part{{Text: text}}}}
}

// BatchEmbedContentsRequest is the body of batchEmbedContents.
type BatchEmbedContentsRequest struct {
	Requests []EmbedContentRequest `json:"requests"`
}

// BatchEmbedRequest builds one embed request per text. Every entry names the
// model, which the API requires to match the model in the URL.
func BatchEmbedRequest(model string, texts []string) BatchEmbedContentsRequest {
	name := ModelResource(model)
	reqs := make([]EmbedContentRequest, len(texts))
	for i, text := range texts {
		reqs[i] = EmbedRequest(text)
		reqs[i].Model = name
	}
	return BatchEmbedContentsRequest{Requests: reqs}
}

// ModelResource returns the "models/<name>" resource name for model.
func ModelResource(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

// Candidate is one generated alternative.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
	Index        int     `json:"index"`
}

// UsageMetadata reports token accounting for a generation.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// GenerateContentResponse is the response of generateContent and one element
// of a streamGenerateContent response.
type GenerateContentResponse struct {
	Candidates    []Candidate    `json:"candidates"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
	ModelVersion  string         `json:"modelVersion,omitempty"`
}

// Text returns the text of the first part of the first candidate.
func (r GenerateContentResponse) Text() (string, error) {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoCandidates
	}
	return r.Candidates[0].Content.Parts[0].Text, nil
}

// CountTokensResponse is the response of countTokens.
type CountTokensResponse struct {
	TotalTokens int `json:"totalTokens"`
}

// Embedding is a single embedding vector.
type Embedding struct {
	Values []float32 `json:"values"`
}

// EmbedContentResponse is the response of embedContent.
type EmbedContentResponse struct {
	Embedding Embedding `json:"embedding"`
}

// BatchEmbedContentsResponse is the response of batchEmbedContents.
type BatchEmbedContentsResponse struct {
	Embeddings []Embedding `json:"embeddings"`
}

// DecodeStream splits a fully buffered streamGenerateContent body into its
// chunks. Without alt=sse the API returns a JSON array of responses; a single
// object is accepted too.
func DecodeStream(body []byte) ([]GenerateContentResponse, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] != '[' {
		var single GenerateContentResponse
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("decode stream chunk: %w", err)
		}
		return []GenerateContentResponse{single}, nil
	}

	var chunks []GenerateContentResponse
	if err := json.Unmarshal(trimmed, &chunks); err != nil {
		return nil, fmt.Errorf("decode stream: %w", err)
	}
	return chunks, nil
}

// StreamText concatenates the text of every chunk in order.
func StreamText(chunks []GenerateContentResponse) string {
	var b strings.Builder
	for _, chunk := range chunks {
		if text, err := chunk.Text(); err == nil {
			b.WriteString(text)
		}
	}
	return b.String()
}
