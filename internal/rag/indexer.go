package rag

import (
	"context"
	"fmt"
)

// IndexDocuments embeds documents and stores them in the vector store.
// This function:
// 1. Optionally deletes or skips documents already in the store
// 2. Generates embeddings in batches
// 3. Inserts and flushes each batch
// It returns the number of documents indexed.
func IndexDocuments(
	ctx context.Context,
	docs []Document,
	embedder Embedder,
	vectorStore VectorStore,
	opts IndexOptions,
) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	if embedder == nil {
		return 0, fmt.Errorf("embedder cannot be nil")
	}

	if vectorStore == nil {
		return 0, fmt.Errorf("vector store cannot be nil")
	}

	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultIndexOptions().BatchSize
	}

	if opts.ForceReindex {
		if err := vectorStore.Delete(ctx, docIDs(docs)); err != nil {
			return 0, fmt.Errorf("failed to delete existing documents: %w", err)
		}
	}

	toIndex := docs
	if opts.SkipExisting && !opts.ForceReindex {
		toIndex = filterNewDocuments(ctx, docs, vectorStore)
	}

	indexed := 0
	for batchStart := 0; batchStart < len(toIndex); batchStart += opts.BatchSize {
		batchEnd := min(batchStart+opts.BatchSize, len(toIndex))
		batch := toIndex[batchStart:batchEnd]

		texts := make([]string, len(batch))
		for i, doc := range batch {
			texts[i] = doc.Text
		}

		embeddings, err := embedder.Embed(ctx, texts)
		if err != nil {
			return indexed, fmt.Errorf("failed to generate embeddings for batch starting at %d: %w", batchStart, err)
		}
		if len(embeddings) != len(batch) {
			return indexed, fmt.Errorf("%w: expected %d embeddings, got %d", ErrEmbeddingFailed, len(batch), len(embeddings))
		}

		records := make([]Record, len(batch))
		for i, doc := range batch {
			records[i] = Record{
				DocID:     doc.ID,
				Text:      doc.Text,
				Model:     embedder.GetModel(),
				Embedding: embeddings[i].Embedding,
			}
		}

		if err := vectorStore.Insert(ctx, records); err != nil {
			return indexed, fmt.Errorf("failed to insert batch starting at %d: %w", batchStart, err)
		}

		if err := vectorStore.Flush(ctx); err != nil {
			return indexed, fmt.Errorf("failed to flush batch starting at %d: %w", batchStart, err)
		}
		indexed += len(batch)
	}

	return indexed, nil
}

// filterNewDocuments removes documents that already exist in the vector store
func filterNewDocuments(ctx context.Context, docs []Document, vectorStore VectorStore) []Document {
	existing, err := vectorStore.Query(ctx, docIDs(docs))
	if err != nil {
		// If the lookup fails, index everything and let insertion surface errors
		return docs
	}

	fresh := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if !existing[doc.ID] {
			fresh = append(fresh, doc)
		}
	}
	return fresh
}

func docIDs(docs []Document) []string {
	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	return ids
}
