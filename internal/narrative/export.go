package narrative

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// ExportFormat represents supported export formats
type ExportFormat string

const (
	FormatJSON     ExportFormat = "json"
	FormatMarkdown ExportFormat = "markdown"
)

// NarrativeExport is the on-disk form of a narrative
type NarrativeExport struct {
	Topic       string    `json:"topic,omitempty"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generated_at"`
	WordCount   int       `json:"word_count"`
	Sources     []string  `json:"sources,omitempty"`
	Prompt      string    `json:"prompt"`
	Text        string    `json:"text"`
}

// ExportNarratives writes narratives as JSON or Markdown
func ExportNarratives(narratives []*Narrative, format string, writer io.Writer) error {
	exports := make([]NarrativeExport, 0, len(narratives))
	for _, n := range narratives {
		if n == nil {
			continue
		}
		exports = append(exports, NarrativeExport{
			Topic:       n.Topic,
			Model:       n.Model,
			GeneratedAt: n.GeneratedAt,
			WordCount:   n.WordCount(),
			Sources:     n.Sources,
			Prompt:      n.Prompt,
			Text:        n.Text,
		})
	}

	switch ExportFormat(strings.ToLower(format)) {
	case FormatJSON:
		return exportJSON(exports, writer)
	case FormatMarkdown, "md":
		return exportMarkdown(exports, writer)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: json, markdown)", format)
	}
}

// exportJSON writes narratives as indented JSON
func exportJSON(exports []NarrativeExport, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exports)
}

func exportMarkdown(exports []NarrativeExport, writer io.Writer) error {
	for i, e := range exports {
		if i > 0 {
			if _, err := io.WriteString(writer, "\n---\n\n"); err != nil {
				return err
			}
		}
		title := fmt.Sprintf("Story %d", i+1)
		if e.Topic != "" {
			title += ": " + e.Topic
		}
		_, err := fmt.Fprintf(writer, "# %s\n\n_%s, %s, %d words_\n\n%s\n",
			title, e.Model, e.GeneratedAt.UTC().Format(time.RFC3339), e.WordCount, strings.TrimSpace(e.Text))
		if err != nil {
			return err
		}
		if len(e.Sources) > 0 {
			if _, err := fmt.Fprintf(writer, "\nSources: %s\n", strings.Join(e.Sources, ", ")); err != nil {
				return err
			}
		}
	}
	return nil
}
