package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Yates-Labs/gaia/internal/genai"
	"github.com/spf13/cobra"
)

var callCmd = &cobra.Command{
	Use:   "call <method>",
	Short: "Call any API method with a raw JSON body",
	Long: `Send a raw JSON body to one of the API methods and print the raw JSON
response. Valid methods: generateContent, streamGenerateContent,
countTokens, embedContent, batchEmbedContents.

Examples:
  gaia call countTokens --body request.json
  cat body.json | gaia call generateContent --model gemini-1.5-pro --body -`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().String("model", "", "Model name (default $GEMINI_MODEL or gemini-1.5-flash)")
	callCmd.Flags().String("body", "-", "Request body file, or - for stdin")
}

func runCall(cmd *cobra.Command, args []string) error {
	ep, err := genai.ParseEndpoint(args[0])
	if err != nil {
		return err
	}

	raw, err := readBody(cmd)
	if err != nil {
		return err
	}
	if !json.Valid(raw) {
		return fmt.Errorf("request body is not valid JSON")
	}

	api, err := newMethods()
	if err != nil {
		return err
	}
	fn, _ := api.Lookup(ep)

	resp, err := fn(commandContext(cmd), genai.Params{Model: modelOr(cmd, cfg.Model), Body: json.RawMessage(raw)})
	if err != nil {
		if kind := genai.Kind(err); kind != "" {
			return fmt.Errorf("%s error: %w", kind, err)
		}
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, resp.Body, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(cmd.OutOrStdout())
	return err
}

func readBody(cmd *cobra.Command) ([]byte, error) {
	path, _ := cmd.Flags().GetString("body")
	if path == "" || path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read body file: %w", err)
	}
	return b, nil
}
