package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Yates-Labs/gaia/internal/config"
	"github.com/Yates-Labs/gaia/internal/content"
	"github.com/Yates-Labs/gaia/internal/genai"
	"github.com/Yates-Labs/gaia/internal/logging"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    config.Config
	logger *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "gaia",
	Short: "Gaia - minimal Gemini REST client",
	Long: `Gaia talks to the Gemini (Generative Language) REST API.

It builds one request function per API method (generateContent,
streamGenerateContent, countTokens, embedContent, batchEmbedContents)
from a single API key, and adds story generation, Milvus-backed
retrieval and an HTTP proxy on top.

Required environment variables:
  GEMINI_API_KEY     - Gemini API key (GOOGLE_API_KEY is accepted too)`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogLevel, cfg.Debug)
		if err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("api-key", "", "Gemini API key (default $GEMINI_API_KEY)")
	flags.String("base-url", "", "API root (default "+genai.DefaultBaseURL+")")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.Bool("debug", false, "Human-readable debug logging")
}

// Execute runs the root command
func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

// Styling
var (
	headerColor  = lipgloss.Color("#F780FF") // Bright pink
	promptColor  = lipgloss.Color("#8BE9FD") // Cyan
	answerColor  = lipgloss.Color("#E9E9F4") // Light purple/white
	contextColor = lipgloss.Color("#6272A4") // Muted purple
	errorColor   = lipgloss.Color("#FF5555") // Red
	successColor = lipgloss.Color("#50FA7B") // Green

	headerStyle  = lipgloss.NewStyle().Foreground(headerColor).Bold(true)
	promptStyle  = lipgloss.NewStyle().Foreground(promptColor).Italic(true)
	answerStyle  = lipgloss.NewStyle().Foreground(answerColor)
	contextStyle = lipgloss.NewStyle().Foreground(contextColor).Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
)

// apiOptions returns the request options every command shares.
func apiOptions() []genai.Option {
	return []genai.Option{
		genai.WithBaseURL(cfg.BaseURL),
		genai.WithLogger(logger),
		genai.WithUserAgent("gaia-cli"),
	}
}

// newMethods validates the configuration and builds the method table.
func newMethods() (*genai.Methods, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return genai.NewMethods(cfg.APIKey, apiOptions()...), nil
}

// modelOr returns the --model flag value, or fallback when unset.
func modelOr(cmd *cobra.Command, fallback string) string {
	if m, _ := cmd.Flags().GetString("model"); m != "" {
		return m
	}
	return fallback
}

// promptFrom joins args, or reads stdin when args is empty.
func promptFrom(cmd *cobra.Command, args []string) (string, error) {
	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(b)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", content.ErrEmptyText
	}
	return text, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
