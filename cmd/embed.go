package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/Yates-Labs/gaia/internal/content"
	"github.com/Yates-Labs/gaia/internal/genai"
	"github.com/spf13/cobra"
)

var embedCmd = &cobra.Command{
	Use:   "embed [text]",
	Short: "Embed one text with embedContent",
	RunE:  runEmbed,
}

var batchEmbedCmd = &cobra.Command{
	Use:   "batch-embed [texts...]",
	Short: "Embed several texts with batchEmbedContents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatchEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd, batchEmbedCmd)
	for _, c := range []*cobra.Command{embedCmd, batchEmbedCmd} {
		c.Flags().String("model", "", "Embedding model (default $GEMINI_EMBEDDING_MODEL or text-embedding-004)")
		c.Flags().Int("dimension", 0, "Output dimensionality (0 = model default)")
	}
}

func runEmbed(cmd *cobra.Command, args []string) error {
	text, err := promptFrom(cmd, args)
	if err != nil {
		return err
	}

	api, err := newMethods()
	if err != nil {
		return err
	}

	body := content.EmbedRequest(text)
	body.OutputDimensionality, _ = cmd.Flags().GetInt("dimension")

	resp, err := api.EmbedContent(commandContext(cmd), genai.Params{Model: modelOr(cmd, cfg.EmbeddingModel), Body: body})
	if err != nil {
		return fmt.Errorf("embedContent failed: %w", err)
	}

	var out content.EmbedContentResponse
	if err := resp.Decode(&out); err != nil {
		return err
	}
	return printJSON(cmd, out.Embedding.Values)
}

func runBatchEmbed(cmd *cobra.Command, args []string) error {
	api, err := newMethods()
	if err != nil {
		return err
	}

	model := modelOr(cmd, cfg.EmbeddingModel)
	body := content.BatchEmbedRequest(model, args)
	if dim, _ := cmd.Flags().GetInt("dimension"); dim > 0 {
		for i := range body.Requests {
			body.Requests[i].OutputDimensionality = dim
		}
	}

	resp, err := api.BatchEmbedContents(commandContext(cmd), genai.Params{Model: model, Body: body})
	if err != nil {
		return fmt.Errorf("batchEmbedContents failed: %w", err)
	}

	var out content.BatchEmbedContentsResponse
	if err := resp.Decode(&out); err != nil {
		return err
	}

	vectors := make([][]float32, len(out.Embeddings))
	for i, e := range out.Embeddings {
		vectors[i] = e.Values
	}
	return printJSON(cmd, vectors)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
