package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/Yates-Labs/gaia/internal/genai"
	"github.com/Yates-Labs/gaia/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an HTTP proxy in front of the API",
	Long: `Serve POST /v1beta/models/{model}:{method} and forward each call with the
configured API key, so clients never hold the key. Also serves /healthz
and Prometheus metrics on /metrics.

The proxy has no authentication of its own: anyone who can reach it spends
the configured key. It listens on loopback by default; only widen --listen
behind something that authenticates callers.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "Listen address (default $GAIA_LISTEN_ADDR or 127.0.0.1:8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Model names come from clients; only the configured ones get their own series.
	opts := append(apiOptions(),
		genai.WithUserAgent("gaia-proxy"),
		genai.WithModelLabels(cfg.Model, cfg.EmbeddingModel),
	)
	srv := server.New(genai.NewMethods(cfg.APIKey, opts...), logger)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx, cfg.ListenAddr)
}
