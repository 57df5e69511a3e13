package orchestrator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/Yates-Labs/gaia/internal/rag"
)

// maxBaseIDBytes leaves room for a "#<n>" chunk suffix within rag.MaxDocIDBytes.
const maxBaseIDBytes = rag.MaxDocIDBytes - 16

var textExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".rst":      true,
	".text":     true,
}

// documentID derives a stable document ID from a file path. Paths too long
// for the store keep their tail behind a short hash of the full path.
func documentID(path string) string {
	id := filepath.ToSlash(filepath.Clean(path))
	if len(id) <= maxBaseIDBytes {
		return id
	}

	sum := sha256.Sum256([]byte(id))
	prefix := hex.EncodeToString(sum[:8]) + ":"
	tail := id[len(id)-(maxBaseIDBytes-len(prefix)):]
	for len(tail) > 0 && !utf8.RuneStart(tail[0]) {
		tail = tail[1:]
	}
	return prefix + tail
}

func chunkID(id string, n int) string {
	return fmt.Sprintf("%s#%d", id, n)
}

// splitText cuts text into pieces of at most size bytes. Cuts prefer a
// paragraph break, then a line break, then a space, and never split a rune.
// Joining the pieces gives back text.
func splitText(text string, size int) []string {
	var chunks []string
	for len(text) > size {
		cut := size
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = size
		}

		head := text[:cut]
		if i := strings.LastIndex(head, "\n\n"); i > cut/2 {
			cut = i + 2
		} else if i := strings.LastIndexByte(head, '\n'); i > cut/2 {
			cut = i + 1
		} else if i := strings.LastIndexByte(head, ' '); i > cut/2 {
			cut = i + 1
		}

		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	if len(text) > 0 {
		chunks = append(chunks, text)
	}
	return chunks
}

// isTextFile reports whether a file found while walking a directory should be indexed
func isTextFile(name string) bool {
	if isHidden(name) {
		return false
	}
	return textExtensions[strings.ToLower(filepath.Ext(name))]
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
