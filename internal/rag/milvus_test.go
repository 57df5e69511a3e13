package rag

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

// TestDefaultMilvusConfig tests default configuration
func TestDefaultMilvusConfig(t *testing.T) {
	config := DefaultMilvusConfig()

	if config.Address == "" {
		t.Error("Expected non-empty address")
	}

	if config.CollectionName == "" {
		t.Error("Expected non-empty collection name")
	}

	if config.Dimension != 768 {
		t.Errorf("Expected dimension 768, got %d", config.Dimension)
	}

	if config.metric() != "COSINE" {
		t.Errorf("Expected metric type COSINE, got %s", config.metric())
	}
}

// TestMilvusStore_EmptyRecords tests that empty records are handled gracefully (no-op)
func TestMilvusStore_EmptyRecords(t *testing.T) {
	store := &MilvusStore{config: DefaultMilvusConfig()}

	if err := store.Insert(context.Background(), []Record{}); err != nil {
		t.Errorf("Expected nil for empty records, got: %v", err)
	}
	if err := store.Delete(context.Background(), nil); err != nil {
		t.Errorf("Expected nil for empty delete, got: %v", err)
	}
}

func TestMilvusStore_RejectsBadRecords(t *testing.T) {
	store := &MilvusStore{config: MilvusConfig{Dimension: 3}}

	err := store.Insert(context.Background(), []Record{{DocID: "a", Embedding: []float32{1, 2}}})
	if !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("Expected ErrInvalidDimension, got %v", err)
	}

	err = store.Insert(context.Background(), []Record{{Embedding: []float32{1, 2, 3}}})
	if !errors.Is(err, ErrMissingMetadata) {
		t.Errorf("Expected ErrMissingMetadata, got %v", err)
	}

	if _, err := store.Search(context.Background(), []float32{1}, 3, nil); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("Expected ErrInvalidDimension on search, got %v", err)
	}
}

// TestMilvusStore_RejectsOversizedRecords checks the schema limits are
// enforced locally. The store has no client, so reaching Milvus would panic.
func TestMilvusStore_RejectsOversizedRecords(t *testing.T) {
	store := &MilvusStore{config: MilvusConfig{Dimension: 3}}
	vec := []float32{1, 2, 3}

	tests := []struct {
		name   string
		record Record
	}{
		{"doc_id", Record{DocID: strings.Repeat("d", MaxDocIDBytes+1), Embedding: vec}},
		{"text of 70 KiB", Record{DocID: "big.txt", Text: strings.Repeat("x", 70<<10), Embedding: vec}},
		{"model", Record{DocID: "a", Model: strings.Repeat("m", MaxModelBytes+1), Embedding: vec}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Insert(context.Background(), []Record{tt.record})
			if !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("Expected ErrInvalidRecord, got %v", err)
			}
		})
	}
}

func TestNewMilvusStore_InvalidDimension(t *testing.T) {
	config := DefaultMilvusConfig()
	config.Dimension = 0

	if _, err := NewMilvusStore(context.Background(), config); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("Expected ErrInvalidDimension, got %v", err)
	}
}

func TestFilterExpr(t *testing.T) {
	cases := []struct {
		opts *SearchOptions
		want string
	}{
		{nil, ""},
		{&SearchOptions{}, ""},
		{&SearchOptions{DocIDs: []string{"a", "b"}}, `doc_id in ["a", "b"]`},
		{&SearchOptions{Model: "text-embedding-004"}, `model == "text-embedding-004"`},
		{&SearchOptions{DocIDs: []string{"a"}, Model: "m"}, `doc_id in ["a"] && model == "m"`},
	}

	for _, tc := range cases {
		if got := filterExpr(tc.opts); got != tc.want {
			t.Errorf("filterExpr(%+v) = %q, want %q", tc.opts, got, tc.want)
		}
	}
}

// Integration test: Insert, Search, Delete full workflow
func TestMilvusStore_Integration_FullWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	address := os.Getenv("MILVUS_ADDRESS")
	if address == "" {
		t.Skip("MILVUS_ADDRESS not set")
	}

	ctx := context.Background()
	config := DefaultMilvusConfig()
	config.Address = address
	config.CollectionName = "gaia_test_workflow"
	config.Dimension = 3

	store, err := NewMilvusStore(ctx, config)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	records := []Record{
		{DocID: "it-a", Text: "alpha", Model: "test", Embedding: []float32{1, 0, 0}},
		{DocID: "it-b", Text: "beta", Model: "test", Embedding: []float32{0, 1, 0}},
	}
	defer store.Delete(ctx, []string{"it-a", "it-b"})

	if err := store.Insert(ctx, records); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	exists, err := store.Query(ctx, []string{"it-a", "missing"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if !exists["it-a"] || exists["missing"] {
		t.Errorf("Unexpected existence map %v", exists)
	}

	chunks, err := store.Search(ctx, []float32{1, 0, 0}, 1, &SearchOptions{Model: "test"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(chunks) != 1 || chunks[0].DocID != "it-a" {
		t.Errorf("Expected it-a as nearest neighbour, got %+v", chunks)
	}
}
