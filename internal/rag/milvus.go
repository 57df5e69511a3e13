package rag

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// Common errors for Milvus operations
var (
	ErrInvalidDimension = errors.New("invalid vector dimension")
	ErrConnectionFailed = errors.New("failed to connect to Milvus")
	ErrInsertFailed     = errors.New("failed to insert records")
	ErrSearchFailed     = errors.New("failed to search vectors")
	ErrMissingMetadata  = errors.New("required metadata fields missing")
	ErrInvalidRecord    = errors.New("record exceeds collection limits")
)

// VarChar limits of the collection schema, in bytes.
const (
	MaxDocIDBytes = 256
	MaxTextBytes  = 65535
	MaxModelBytes = 128
)

// MilvusConfig holds configuration for Milvus connection and collection
type MilvusConfig struct {
	Address        string // Milvus server address (e.g., "localhost:19530")
	CollectionName string // Name of the collection
	Dimension      int    // Vector dimension (768 for text-embedding-004)
	MetricType     string // Similarity metric (default: "COSINE")

	// HNSW index parameters
	M              int // HNSW M parameter (default: 16)
	EfConstruction int // HNSW efConstruction (default: 256)
	Ef             int // HNSW search ef (default: 64)
}

// DefaultMilvusConfig returns the default local configuration
func DefaultMilvusConfig() MilvusConfig {
	return MilvusConfig{
		Address:        "localhost:19530",
		CollectionName: "gaia_embeddings",
		Dimension:      768,
		MetricType:     "COSINE",
		M:              16,
		EfConstruction: 256,
		Ef:             64,
	}
}

func (c MilvusConfig) metric() entity.MetricType {
	if c.MetricType == "" {
		return entity.COSINE
	}
	return entity.MetricType(strings.ToUpper(c.MetricType))
}

// MilvusStore implements VectorStore interface using Milvus
type MilvusStore struct {
	client client.Client
	config MilvusConfig
}

// NewMilvusStore connects to Milvus and ensures the collection exists with
// the expected schema and index.
func NewMilvusStore(ctx context.Context, config MilvusConfig) (*MilvusStore, error) {
	if config.Dimension <= 0 {
		return nil, ErrInvalidDimension
	}

	c, err := client.NewGrpcClient(ctx, config.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	store := &MilvusStore{
		client: c,
		config: config,
	}

	if err := store.ensureCollection(ctx); err != nil {
		c.Close()
		return nil, err
	}

	return store, nil
}

// ensureCollection creates the collection with schema if it doesn't exist
func (m *MilvusStore) ensureCollection(ctx context.Context) error {
	has, err := m.client.HasCollection(ctx, m.config.CollectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if !has {
		if err := m.client.CreateCollection(ctx, m.schema(), entity.DefaultShardNumber); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}

		idx, err := entity.NewIndexHNSW(m.config.metric(), m.config.M, m.config.EfConstruction)
		if err != nil {
			return fmt.Errorf("failed to create index config: %w", err)
		}
		if err := m.client.CreateIndex(ctx, m.config.CollectionName, "embedding", idx, false); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := m.client.LoadCollection(ctx, m.config.CollectionName, false); err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	return nil
}

func (m *MilvusStore) schema() *entity.Schema {
	return &entity.Schema{
		CollectionName: m.config.CollectionName,
		Description:    "document embeddings",
		AutoID:         true,
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeInt64,
				PrimaryKey: true,
				AutoID:     true,
			},
			{
				Name:       "doc_id",
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": strconv.Itoa(MaxDocIDBytes)},
			},
			{
				Name:       "text",
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": strconv.Itoa(MaxTextBytes)},
			},
			{
				Name:       "model",
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": strconv.Itoa(MaxModelBytes)},
			},
			{
				Name:       "embedding",
				DataType:   entity.FieldTypeFloatVector,
				TypeParams: map[string]string{"dim": fmt.Sprintf("%d", m.config.Dimension)},
			},
		},
	}
}

// Insert adds records to the collection. An empty slice is a no-op.
// Records that would not fit the schema fail with ErrInvalidRecord before
// anything is sent.
func (m *MilvusStore) Insert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	docIDs := make([]string, len(records))
	texts := make([]string, len(records))
	models := make([]string, len(records))
	embeddings := make([][]float32, len(records))

	for i, record := range records {
		if record.DocID == "" {
			return fmt.Errorf("%w: doc_id", ErrMissingMetadata)
		}
		if len(record.Embedding) != m.config.Dimension {
			return fmt.Errorf("%w: expected %d, got %d", ErrInvalidDimension, m.config.Dimension, len(record.Embedding))
		}
		if err := checkRecordSize(record); err != nil {
			return err
		}
		docIDs[i] = record.DocID
		texts[i] = record.Text
		models[i] = record.Model
		embeddings[i] = record.Embedding
	}

	columns := []entity.Column{
		entity.NewColumnVarChar("doc_id", docIDs),
		entity.NewColumnVarChar("text", texts),
		entity.NewColumnVarChar("model", models),
		entity.NewColumnFloatVector("embedding", m.config.Dimension, embeddings),
	}

	if _, err := m.client.Insert(ctx, m.config.CollectionName, "", columns...); err != nil {
		return fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}
	return nil
}

func checkRecordSize(record Record) error {
	switch {
	case len(record.DocID) > MaxDocIDBytes:
		return fmt.Errorf("%w: doc_id is %d bytes, max %d", ErrInvalidRecord, len(record.DocID), MaxDocIDBytes)
	case len(record.Text) > MaxTextBytes:
		return fmt.Errorf("%w: text of %s is %d bytes, max %d", ErrInvalidRecord, record.DocID, len(record.Text), MaxTextBytes)
	case len(record.Model) > MaxModelBytes:
		return fmt.Errorf("%w: model is %d bytes, max %d", ErrInvalidRecord, len(record.Model), MaxModelBytes)
	}
	return nil
}

// Flush ensures inserted data is persisted
func (m *MilvusStore) Flush(ctx context.Context) error {
	if err := m.client.Flush(ctx, m.config.CollectionName, false); err != nil {
		return fmt.Errorf("failed to flush data: %w", err)
	}
	return nil
}

// Search performs top-K similarity search with optional filtering
func (m *MilvusStore) Search(ctx context.Context, queryVector []float32, topK int, opts *SearchOptions) ([]ContextChunk, error) {
	if len(queryVector) != m.config.Dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidDimension, m.config.Dimension, len(queryVector))
	}

	sp, err := entity.NewIndexHNSWSearchParam(m.config.Ef)
	if err != nil {
		return nil, fmt.Errorf("failed to create search params: %w", err)
	}

	results, err := m.client.Search(
		ctx,
		m.config.CollectionName,
		nil, // partition names
		filterExpr(opts),
		[]string{"doc_id", "text", "model"},
		[]entity.Vector{entity.FloatVector(queryVector)},
		"embedding",
		m.config.metric(),
		topK,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	if len(results) == 0 {
		return []ContextChunk{}, nil
	}

	chunks := make([]ContextChunk, 0, results[0].ResultCount)
	for i := 0; i < results[0].ResultCount; i++ {
		chunk := ContextChunk{Score: results[0].Scores[i]}

		for _, field := range results[0].Fields {
			col, ok := field.(*entity.ColumnVarChar)
			if !ok {
				continue
			}
			switch field.Name() {
			case "doc_id":
				chunk.DocID = col.Data()[i]
			case "text":
				chunk.Text = col.Data()[i]
			case "model":
				chunk.Model = col.Data()[i]
			}
		}

		chunks = append(chunks, chunk)
	}

	return chunks, nil
}

// Query checks which document IDs exist in the store
func (m *MilvusStore) Query(ctx context.Context, docIDs []string) (map[string]bool, error) {
	existence := make(map[string]bool, len(docIDs))
	if len(docIDs) == 0 {
		return existence, nil
	}
	for _, id := range docIDs {
		existence[id] = false
	}

	results, err := m.client.Query(
		ctx,
		m.config.CollectionName,
		nil, // partition names
		docIDExpr(docIDs),
		[]string{"doc_id"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	for _, column := range results {
		if column.Name() != "doc_id" {
			continue
		}
		if varchar, ok := column.(*entity.ColumnVarChar); ok {
			for _, id := range varchar.Data() {
				existence[id] = true
			}
		}
	}

	return existence, nil
}

// Delete removes records by document IDs
func (m *MilvusStore) Delete(ctx context.Context, docIDs []string) error {
	if len(docIDs) == 0 {
		return nil
	}

	if err := m.client.Delete(ctx, m.config.CollectionName, "", docIDExpr(docIDs)); err != nil {
		return fmt.Errorf("failed to delete records: %w", err)
	}
	return nil
}

// Close releases resources and closes the Milvus connection
func (m *MilvusStore) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

// docIDExpr renders `doc_id in ["a", "b"]`.
func docIDExpr(docIDs []string) string {
	quoted := make([]string, len(docIDs))
	for i, id := range docIDs {
		quoted[i] = fmt.Sprintf("%q", id)
	}
	return fmt.Sprintf("doc_id in [%s]", strings.Join(quoted, ", "))
}

func filterExpr(opts *SearchOptions) string {
	if opts == nil {
		return ""
	}

	var clauses []string
	if len(opts.DocIDs) > 0 {
		clauses = append(clauses, docIDExpr(opts.DocIDs))
	}
	if opts.Model != "" {
		clauses = append(clauses, fmt.Sprintf("model == %q", opts.Model))
	}
	return strings.Join(clauses, " && ")
}
