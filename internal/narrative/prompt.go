package narrative

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrMissingTopic = errors.New("story topic is required")
)

// AssemblePrompt builds a story prompt for topic. Context chunks, if any, are
// appended as reference material ordered by score, highest first.
func AssemblePrompt(topic string, contextChunks []ContextChunk) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrMissingTopic
	}

	sorted := make([]ContextChunk, len(contextChunks))
	copy(sorted, contextChunks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Write a story about %s.", strings.TrimSuffix(topic, ".")))

	if len(sorted) == 0 {
		return b.String(), nil
	}

	b.WriteString("\n\n# Reference Material\n\n")
	b.WriteString("Draw on the following excerpts where they fit the story.\n\n")
	for i, chunk := range sorted {
		b.WriteString(fmt.Sprintf("## Excerpt %d (%s, relevance %.2f)\n\n", i+1, chunk.DocID, chunk.Score))
		b.WriteString(strings.TrimSpace(chunk.Text))
		b.WriteString("\n\n")
	}

	return strings.TrimRight(b.String(), "\n"), nil
}
