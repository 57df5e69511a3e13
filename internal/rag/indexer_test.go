package rag

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func testDocs(n int) []Document {
	docs := make([]Document, n)
	for i := range docs {
		docs[i] = Document{ID: fmt.Sprintf("doc-%02d", i), Text: fmt.Sprintf("document body %d", i)}
	}
	return docs
}

func TestIndexDocuments_Batches(t *testing.T) {
	embedder := &mockEmbedder{}
	store := &mockVectorStore{}

	opts := DefaultIndexOptions()
	opts.BatchSize = 2

	n, err := IndexDocuments(context.Background(), testDocs(5), embedder, store, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5 indexed, got %d", n)
	}
	if len(embedder.calls) != 3 {
		t.Errorf("expected 3 embed batches, got %d", len(embedder.calls))
	}
	if store.inserts != 3 || store.flushes != 3 {
		t.Errorf("expected 3 inserts and flushes, got %d/%d", store.inserts, store.flushes)
	}
	if rec := store.records["doc-03"]; rec.Model != "mock" || rec.Text != "document body 3" {
		t.Errorf("unexpected stored record %+v", rec)
	}
}

func TestIndexDocuments_SkipExisting(t *testing.T) {
	embedder := &mockEmbedder{}
	store := &mockVectorStore{records: map[string]Record{"doc-00": {DocID: "doc-00"}}}

	n, err := IndexDocuments(context.Background(), testDocs(3), embedder, store, DefaultIndexOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 new documents indexed, got %d", n)
	}
	if len(embedder.calls) != 1 || len(embedder.calls[0]) != 2 {
		t.Errorf("expected a single batch of 2, got %v", embedder.calls)
	}
}

func TestIndexDocuments_SkipExistingQueryFailure(t *testing.T) {
	store := &mockVectorStore{queryErr: errors.New("unavailable")}

	n, err := IndexDocuments(context.Background(), testDocs(3), &mockEmbedder{}, store, DefaultIndexOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("expected all documents indexed when lookup fails, got %d", n)
	}
}

func TestIndexDocuments_ForceReindex(t *testing.T) {
	store := &mockVectorStore{records: map[string]Record{"doc-00": {DocID: "doc-00", Text: "stale"}}}

	opts := DefaultIndexOptions()
	opts.ForceReindex = true

	n, err := IndexDocuments(context.Background(), testDocs(2), &mockEmbedder{}, store, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 indexed, got %d", n)
	}
	if len(store.deleted) != 2 {
		t.Errorf("expected both IDs deleted first, got %v", store.deleted)
	}
	if store.records["doc-00"].Text != "document body 0" {
		t.Errorf("stale record not replaced: %+v", store.records["doc-00"])
	}
}

func TestIndexDocuments_EmbedError(t *testing.T) {
	embedErr := errors.New("quota exceeded")
	embedder := &mockEmbedder{embedFunc: func(ctx context.Context, texts []string) ([]EmbeddingRecord, error) {
		return nil, embedErr
	}}

	_, err := IndexDocuments(context.Background(), testDocs(2), embedder, &mockVectorStore{}, DefaultIndexOptions())
	if !errors.Is(err, embedErr) {
		t.Errorf("expected wrapped embed error, got %v", err)
	}
}

func TestIndexDocuments_NilDependencies(t *testing.T) {
	ctx := context.Background()
	if _, err := IndexDocuments(ctx, testDocs(1), nil, &mockVectorStore{}, DefaultIndexOptions()); err == nil {
		t.Error("expected error for nil embedder")
	}
	if _, err := IndexDocuments(ctx, testDocs(1), &mockEmbedder{}, nil, DefaultIndexOptions()); err == nil {
		t.Error("expected error for nil store")
	}
	if n, err := IndexDocuments(ctx, nil, nil, nil, DefaultIndexOptions()); n != 0 || err != nil {
		t.Errorf("expected no-op for empty input, got %d, %v", n, err)
	}
}
