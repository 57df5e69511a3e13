package rag

import "context"

// Document is a unit of text to embed and index.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Record is a document embedding ready for storage.
type Record struct {
	DocID     string    `json:"doc_id"`
	Text      string    `json:"text"`
	Model     string    `json:"model"`
	Embedding []float32 `json:"embedding"`
}

// ContextChunk represents a retrieved document with its similarity score.
type ContextChunk struct {
	DocID string  `json:"doc_id"`
	Text  string  `json:"text"`
	Model string  `json:"model"`
	Score float32 `json:"score"` // Similarity score (cosine)
}

// SearchOptions provides filtering options for vector search
type SearchOptions struct {
	DocIDs []string `json:"doc_ids,omitempty"` // Restrict to these documents
	Model  string   `json:"model,omitempty"`   // Restrict to embeddings from this model
}

// VectorStore defines the interface for vector storage and similarity search
type VectorStore interface {
	// Insert efficiently inserts multiple records in a single operation
	Insert(ctx context.Context, records []Record) error

	// Flush ensures all pending data is persisted
	Flush(ctx context.Context) error

	// Search performs top-K similarity search with optional filtering
	Search(ctx context.Context, queryVector []float32, topK int, opts *SearchOptions) ([]ContextChunk, error)

	// Query checks which document IDs exist in the store
	Query(ctx context.Context, docIDs []string) (map[string]bool, error)

	// Delete removes records by document IDs
	Delete(ctx context.Context, docIDs []string) error

	// Close releases resources and closes connections
	Close() error
}

// IndexOptions provides configuration for document indexing
type IndexOptions struct {
	// BatchSize determines how many documents to embed per request
	BatchSize int

	// ForceReindex will delete and re-insert documents even if they exist
	ForceReindex bool

	// SkipExisting will check if a document already exists and skip it
	SkipExisting bool
}

// DefaultIndexOptions returns sensible defaults for indexing
func DefaultIndexOptions() IndexOptions {
	return IndexOptions{
		BatchSize:    50, // batchEmbedContents accepts up to 100 requests
		ForceReindex: false,
		SkipExisting: true,
	}
}
