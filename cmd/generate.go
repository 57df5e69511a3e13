package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Yates-Labs/gaia/internal/content"
	"github.com/Yates-Labs/gaia/internal/genai"
	"github.com/Yates-Labs/gaia/internal/narrative"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate text with generateContent",
	Long: `Send a single-turn prompt to generateContent and print the first candidate.
The prompt is read from stdin when no arguments are given.

Examples:
  gaia generate "Write a story about a magic backpack."
  echo "Summarize RFC 2616" | gaia generate --model gemini-1.5-pro`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String("model", "", "Model name (default $GEMINI_MODEL or gemini-1.5-flash)")
	generateCmd.Flags().String("export", "", "Also write the result to a file (.json or .md)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	prompt, err := promptFrom(cmd, args)
	if err != nil {
		return err
	}

	api, err := newMethods()
	if err != nil {
		return err
	}
	model := modelOr(cmd, cfg.Model)

	var text string
	api.GenerateContent.Then(commandContext(cmd), genai.Params{Model: model, Body: content.TextRequest(prompt)})(
		func(resp *genai.Response) {
			var out content.GenerateContentResponse
			if err = resp.Decode(&out); err == nil {
				text, err = out.Text()
			}
		},
		func(e error) { err = e },
	)
	if err != nil {
		return fmt.Errorf("generateContent failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), answerStyle.Render(strings.TrimSpace(text)))

	if path, _ := cmd.Flags().GetString("export"); path != "" {
		narr := &narrative.Narrative{Prompt: prompt, Text: text, GeneratedAt: time.Now(), Model: model}
		return exportNarrative(cmd, narr, path)
	}
	return nil
}

// exportNarrative writes narr to path, choosing the format from the extension.
func exportNarrative(cmd *cobra.Command, narr *narrative.Narrative, path string) error {
	format := "json"
	if strings.HasSuffix(path, ".md") || strings.HasSuffix(path, ".markdown") {
		format = "markdown"
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := narrative.ExportNarratives([]*narrative.Narrative{narr}, format, file); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render("✓ Exported to "+path))
	return nil
}
