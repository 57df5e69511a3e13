package cmd

import (
	"fmt"

	"github.com/Yates-Labs/gaia/internal/content"
	"github.com/Yates-Labs/gaia/internal/genai"
	"github.com/spf13/cobra"
)

var streamCmd = &cobra.Command{
	Use:   "stream [prompt]",
	Short: "Generate text with streamGenerateContent",
	Long: `Call streamGenerateContent and print each chunk. The response is read in
full before it is split into chunks.`,
	RunE: runStream,
}

func init() {
	rootCmd.AddCommand(streamCmd)
	streamCmd.Flags().String("model", "", "Model name (default $GEMINI_MODEL or gemini-1.5-flash)")
	streamCmd.Flags().Bool("chunks", false, "Print every chunk on its own line")
}

func runStream(cmd *cobra.Command, args []string) error {
	prompt, err := promptFrom(cmd, args)
	if err != nil {
		return err
	}

	api, err := newMethods()
	if err != nil {
		return err
	}

	params := genai.Params{Model: modelOr(cmd, cfg.Model), Body: content.TextRequest(prompt)}
	outcome := <-api.StreamGenerateContent.Go(commandContext(cmd), params)
	if outcome.Err != nil {
		return fmt.Errorf("streamGenerateContent failed: %w", outcome.Err)
	}

	chunks, err := content.DecodeStream(outcome.Response.Body)
	if err != nil {
		return err
	}
	logger.Debugw("stream decoded", "chunks", len(chunks))

	out := cmd.OutOrStdout()
	if perChunk, _ := cmd.Flags().GetBool("chunks"); perChunk {
		for i, chunk := range chunks {
			text, err := chunk.Text()
			if err != nil {
				continue
			}
			fmt.Fprintf(out, "%s %s\n", contextStyle.Render(fmt.Sprintf("[%d]", i+1)), answerStyle.Render(text))
		}
		return nil
	}

	fmt.Fprintln(out, answerStyle.Render(content.StreamText(chunks)))
	return nil
}
