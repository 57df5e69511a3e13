package rag

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Yates-Labs/gaia/internal/content"
	"github.com/Yates-Labs/gaia/internal/genai"
)

func TestNewGeminiEmbedder_MissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := NewGeminiEmbedder("", "text-embedding-004", 768)
	if err != ErrMissingAPIKey {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestNewGeminiEmbedder_InvalidDimension(t *testing.T) {
	_, err := NewGeminiEmbedder("k", "text-embedding-004", 0)
	if !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("expected ErrInvalidDimension, got %v", err)
	}
}

func TestGeminiEmbedder_EmptyTexts(t *testing.T) {
	embedder, err := NewGeminiEmbedder("k", "text-embedding-004", 3)
	if err != nil {
		t.Fatalf("failed to create embedder: %v", err)
	}

	if _, err := embedder.Embed(context.Background(), []string{}); err != ErrEmptyTexts {
		t.Errorf("expected ErrEmptyTexts, got %v", err)
	}
}

func embedServer(t *testing.T, values [][]float32) (*httptest.Server, *content.BatchEmbedContentsRequest) {
	t.Helper()
	got := &content.BatchEmbedContentsRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/text-embedding-004:batchEmbedContents" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, got)

		resp := content.BatchEmbedContentsResponse{}
		for _, v := range values {
			resp.Embeddings = append(resp.Embeddings, content.Embedding{Values: v})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestGeminiEmbedder_Embed(t *testing.T) {
	srv, got := embedServer(t, [][]float32{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}})

	embedder, err := NewGeminiEmbedder("k", "text-embedding-004", 3, genai.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("failed to create embedder: %v", err)
	}

	records, err := embedder.Embed(context.Background(), []string{"Hello", "world"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].Text != "world" || records[1].Embedding[2] != 0.6 || records[1].Index != 1 {
		t.Errorf("unexpected record %+v", records[1])
	}
	if records[0].Model != "text-embedding-004" {
		t.Errorf("unexpected model %s", records[0].Model)
	}

	if len(got.Requests) != 2 {
		t.Fatalf("expected 2 batch requests, got %d", len(got.Requests))
	}
	if got.Requests[0].Model != "models/text-embedding-004" || got.Requests[0].OutputDimensionality != 3 {
		t.Errorf("unexpected batch entry %+v", got.Requests[0])
	}
}

func TestGeminiEmbedder_Embed_DimensionMismatch(t *testing.T) {
	srv, _ := embedServer(t, [][]float32{{0.1, 0.2}})

	embedder, _ := NewGeminiEmbedder("k", "text-embedding-004", 3, genai.WithBaseURL(srv.URL))

	if _, err := embedder.Embed(context.Background(), []string{"Hello"}); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("expected ErrInvalidDimension, got %v", err)
	}
}

func TestGeminiEmbedder_Embed_CountMismatch(t *testing.T) {
	srv, _ := embedServer(t, [][]float32{{0.1, 0.2, 0.3}})

	embedder, _ := NewGeminiEmbedder("k", "text-embedding-004", 3, genai.WithBaseURL(srv.URL))

	if _, err := embedder.Embed(context.Background(), []string{"a", "b"}); !errors.Is(err, ErrEmbeddingFailed) {
		t.Errorf("expected ErrEmbeddingFailed, got %v", err)
	}
}

func TestGeminiEmbedder_Embed_RemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"model not found"}}`))
	}))
	defer srv.Close()

	embedder, _ := NewGeminiEmbedder("k", "text-embedding-004", 3, genai.WithBaseURL(srv.URL))

	_, err := embedder.Embed(context.Background(), []string{"a"})
	if !errors.Is(err, ErrEmbeddingFailed) || !errors.Is(err, genai.ErrRemote) {
		t.Errorf("expected ErrEmbeddingFailed wrapping ErrRemote, got %v", err)
	}
}
