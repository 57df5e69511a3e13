package orchestrator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/Yates-Labs/gaia/internal/rag"
)

// LoadConfig controls how files are turned into documents.
type LoadConfig struct {
	// ChunkSize is the maximum size of a document's text in bytes. Longer
	// files are split into several documents with IDs "<path>#<n>".
	ChunkSize int
}

// DefaultLoadConfig returns chunk sizes that fit one embedding request and
// the vector store's text column.
func DefaultLoadConfig() LoadConfig {
	return LoadConfig{
		ChunkSize: 8 << 10, // 8 KiB
	}
}

// LoadDocuments reads the given files into documents ready for indexing.
// Uses default load configuration.
func LoadDocuments(ctx context.Context, paths []string) ([]rag.Document, error) {
	return LoadDocumentsWithConfig(ctx, paths, DefaultLoadConfig())
}

// LoadDocumentsWithConfig reads the given files into documents.
// Directories are walked recursively and only text-like files are kept.
// Documents are keyed by their slash-separated path, files are returned in
// path order and the chunks of one file in text order.
func LoadDocumentsWithConfig(ctx context.Context, paths []string, config LoadConfig) ([]rag.Document, error) {
	if config.ChunkSize <= 0 || config.ChunkSize > rag.MaxTextBytes {
		config.ChunkSize = DefaultLoadConfig().ChunkSize
	}

	type file struct {
		id   string
		docs []rag.Document
	}
	seen := make(map[string]bool)
	var files []file

	add := func(path string) error {
		id := documentID(path)
		if seen[id] {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if len(data) == 0 {
			return nil
		}
		seen[id] = true

		text := string(data)
		if len(text) <= config.ChunkSize {
			files = append(files, file{id: id, docs: []rag.Document{{ID: id, Text: text}}})
			return nil
		}

		chunks := splitText(text, config.ChunkSize)
		f := file{id: id, docs: make([]rag.Document, len(chunks))}
		for i, chunk := range chunks {
			f.docs[i] = rag.Document{ID: chunkID(id, i+1), Text: chunk}
		}
		files = append(files, f)
		return nil
	}

	for _, path := range paths {
		// Check for context cancellation
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled while loading documents: %w", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		if !info.IsDir() {
			if err := add(path); err != nil {
				return nil, err
			}
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != path && isHidden(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !isTextFile(d.Name()) {
				return nil
			}
			return add(p)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", path, err)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].id < files[j].id })

	var docs []rag.Document
	for _, f := range files {
		docs = append(docs, f.docs...)
	}
	return docs, nil
}
