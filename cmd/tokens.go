package cmd

import (
	"fmt"

	"github.com/Yates-Labs/gaia/internal/content"
	"github.com/Yates-Labs/gaia/internal/genai"
	"github.com/spf13/cobra"
)

var countTokensCmd = &cobra.Command{
	Use:   "count-tokens [prompt]",
	Short: "Count the tokens of a prompt",
	RunE:  runCountTokens,
}

func init() {
	rootCmd.AddCommand(countTokensCmd)
	countTokensCmd.Flags().String("model", "", "Model name (default $GEMINI_MODEL or gemini-1.5-flash)")
}

func runCountTokens(cmd *cobra.Command, args []string) error {
	prompt, err := promptFrom(cmd, args)
	if err != nil {
		return err
	}

	api, err := newMethods()
	if err != nil {
		return err
	}

	resp, err := api.CountTokens(commandContext(cmd), genai.Params{Model: modelOr(cmd, cfg.Model), Body: content.TextRequest(prompt)})
	if err != nil {
		return fmt.Errorf("countTokens failed: %w", err)
	}

	var out content.CountTokensResponse
	if err := resp.Decode(&out); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", headerStyle.Render("Total tokens:"), out.TotalTokens)
	return nil
}
