package rag

import (
	"context"
	"sort"
)

// mockEmbedder implements Embedder interface for testing
type mockEmbedder struct {
	embedFunc func(ctx context.Context, texts []string) ([]EmbeddingRecord, error)
	calls     [][]string
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([]EmbeddingRecord, error) {
	m.calls = append(m.calls, texts)
	if m.embedFunc != nil {
		return m.embedFunc(ctx, texts)
	}
	// Default: simple embeddings derived from the text length
	records := make([]EmbeddingRecord, len(texts))
	for i, text := range texts {
		records[i] = EmbeddingRecord{
			Text:      text,
			Embedding: []float32{float32(len(text)), float32(i), 1.0},
			Index:     i,
			Model:     "mock",
		}
	}
	return records, nil
}

func (m *mockEmbedder) GetModel() string { return "mock" }

func (m *mockEmbedder) GetDimension() int { return 3 }

// mockVectorStore implements VectorStore interface for testing
type mockVectorStore struct {
	records     map[string]Record
	inserts     int
	flushes     int
	deleted     []string
	lastOptions *SearchOptions
	queryErr    error
}

func (m *mockVectorStore) Insert(ctx context.Context, records []Record) error {
	if m.records == nil {
		m.records = make(map[string]Record)
	}
	m.inserts++
	for _, r := range records {
		m.records[r.DocID] = r
	}
	return nil
}

func (m *mockVectorStore) Flush(ctx context.Context) error {
	m.flushes++
	return nil
}

func (m *mockVectorStore) Search(ctx context.Context, queryVector []float32, topK int, opts *SearchOptions) ([]ContextChunk, error) {
	m.lastOptions = opts

	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	chunks := []ContextChunk{}
	for _, id := range ids {
		r := m.records[id]
		chunks = append(chunks, ContextChunk{DocID: r.DocID, Text: r.Text, Model: r.Model, Score: 0.9})
		if len(chunks) >= topK {
			break
		}
	}
	return chunks, nil
}

func (m *mockVectorStore) Query(ctx context.Context, docIDs []string) (map[string]bool, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	result := make(map[string]bool, len(docIDs))
	for _, id := range docIDs {
		_, ok := m.records[id]
		result[id] = ok
	}
	return result, nil
}

func (m *mockVectorStore) Delete(ctx context.Context, docIDs []string) error {
	m.deleted = append(m.deleted, docIDs...)
	for _, id := range docIDs {
		delete(m.records, id)
	}
	return nil
}

func (m *mockVectorStore) Close() error { return nil }
