package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Yates-Labs/gaia/internal/rag"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadDocuments_WalksDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.md"), "The backpack hummed.")
	writeFile(t, filepath.Join(dir, "a.txt"), "A girl found a backpack.")
	writeFile(t, filepath.Join(dir, "nested", "c.txt"), "It could hold a whole forest.")
	writeFile(t, filepath.Join(dir, "image.png"), "binary")
	writeFile(t, filepath.Join(dir, ".hidden", "d.txt"), "secret")
	writeFile(t, filepath.Join(dir, "empty.txt"), "")

	docs, err := LoadDocuments(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d: %+v", len(docs), docs)
	}
	want := []string{
		filepath.ToSlash(filepath.Join(dir, "a.txt")),
		filepath.ToSlash(filepath.Join(dir, "b.md")),
		filepath.ToSlash(filepath.Join(dir, "nested", "c.txt")),
	}
	for i, id := range want {
		if docs[i].ID != id {
			t.Errorf("doc %d: expected ID %s, got %s", i, id, docs[i].ID)
		}
	}
	if docs[0].Text != "A girl found a backpack." {
		t.Errorf("unexpected text %q", docs[0].Text)
	}
}

func TestLoadDocuments_ExplicitFileAnyExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.log")
	writeFile(t, path, "log line")

	docs, err := LoadDocuments(context.Background(), []string{path, path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected duplicate paths to collapse, got %d", len(docs))
	}
}

func TestLoadDocuments_SplitsLargeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saga.txt")
	var b strings.Builder
	for b.Len() < 70<<10 {
		b.WriteString("The river remembered every traveller who crossed it.\n\n")
	}
	text := b.String()
	writeFile(t, path, text)
	writeFile(t, filepath.Join(dir, "note.txt"), "short")

	docs, err := LoadDocuments(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("LoadDocuments returned error: %v", err)
	}

	id := filepath.ToSlash(filepath.Clean(path))
	var joined strings.Builder
	var chunks int
	for _, doc := range docs {
		if !strings.HasPrefix(doc.ID, id+"#") {
			continue
		}
		chunks++
		if want := fmt.Sprintf("%s#%d", id, chunks); doc.ID != want {
			t.Errorf("chunk %d: expected ID %q, got %q", chunks, want, doc.ID)
		}
		if len(doc.Text) > DefaultLoadConfig().ChunkSize {
			t.Errorf("chunk %s is %d bytes, over the chunk size", doc.ID, len(doc.Text))
		}
		if len(doc.ID) > rag.MaxDocIDBytes || len(doc.Text) > rag.MaxTextBytes {
			t.Errorf("chunk %s does not fit the store", doc.ID)
		}
		joined.WriteString(doc.Text)
	}

	if chunks < 9 {
		t.Fatalf("expected a 70 KiB file to give at least 9 chunks, got %d", chunks)
	}
	if joined.String() != text {
		t.Error("chunks do not join back to the original file")
	}

	first := docs[0]
	if !strings.HasSuffix(first.ID, "/note.txt") || first.Text != "short" {
		t.Errorf("expected small file kept whole under its path, got %+v", first)
	}
}

func TestSplitText(t *testing.T) {
	t.Run("prefers paragraph breaks", func(t *testing.T) {
		chunks := splitText("aaaa bbbb\n\ncccc dddd", 14)
		if len(chunks) != 2 || chunks[0] != "aaaa bbbb\n\n" || chunks[1] != "cccc dddd" {
			t.Errorf("unexpected chunks: %q", chunks)
		}
	})

	t.Run("never splits a rune", func(t *testing.T) {
		text := strings.Repeat("é", 50)
		chunks := splitText(text, 7)
		if strings.Join(chunks, "") != text {
			t.Fatal("chunks do not join back")
		}
		for _, c := range chunks {
			if len(c) > 7 || !utf8.ValidString(c) {
				t.Errorf("bad chunk %q", c)
			}
		}
	})

	t.Run("short text untouched", func(t *testing.T) {
		if chunks := splitText("tiny", 10); len(chunks) != 1 || chunks[0] != "tiny" {
			t.Errorf("unexpected chunks: %q", chunks)
		}
	})
}

func TestDocumentID_LongPath(t *testing.T) {
	long := strings.Repeat("deep/", 80) + "tale.txt"

	id := documentID(long)
	if len(chunkID(id, 9999)) > rag.MaxDocIDBytes {
		t.Errorf("chunk ID of %d bytes exceeds the store limit", len(chunkID(id, 9999)))
	}
	if !strings.HasSuffix(id, "tale.txt") {
		t.Errorf("expected ID to keep the path tail, got %q", id)
	}
	if documentID(long) != id {
		t.Error("expected stable IDs")
	}
	if other := documentID(strings.Repeat("wide/", 80) + "tale.txt"); other == id {
		t.Error("expected distinct IDs for distinct paths")
	}
}

func TestLoadDocuments_MissingPath(t *testing.T) {
	if _, err := LoadDocuments(context.Background(), []string{"/does/not/exist"}); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestLoadDocuments_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := LoadDocuments(ctx, []string{t.TempDir()}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestIsTextFile(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"story.txt", true},
		{"README.MD", true},
		{"notes.rst", true},
		{".env", false},
		{".draft.txt", false},
		{"main.go", false},
		{"noext", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTextFile(tt.name); got != tt.expected {
				t.Errorf("isTextFile(%q) = %v, expected %v", tt.name, got, tt.expected)
			}
		})
	}
}
