package cmd

import (
	"fmt"
	"strings"

	"github.com/Yates-Labs/gaia/internal/narrative"
	"github.com/Yates-Labs/gaia/internal/orchestrator"
	"github.com/Yates-Labs/gaia/internal/rag"
	"github.com/spf13/cobra"
)

var storyCmd = &cobra.Command{
	Use:   "story [topic]",
	Short: "Write a story about a topic",
	Long: `Write a story about a topic with the selected LLM provider.

With --context the topic is first matched against documents indexed with
"gaia index", and the closest excerpts are added to the prompt.

Required environment variables:
  GEMINI_API_KEY     - Gemini API key (also used for embeddings)
  MILVUS_ADDRESS     - Milvus server address, with --context (default: localhost:19530)

Examples:
  gaia story "a magic backpack"
  gaia story "the lighthouse keeper" --context --topk 3 --verbose
  gaia story "a magic backpack" --provider openai --export story.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStory,
}

func init() {
	rootCmd.AddCommand(storyCmd)
	storyCmd.Flags().String("model", "", "Model name (default $GEMINI_MODEL or gemini-1.5-flash)")
	storyCmd.Flags().String("provider", string(narrative.ProviderGemini), "LLM provider: gemini, or openai for the OpenAI-compatible endpoint")
	storyCmd.Flags().Float32("temperature", 0, "Sampling temperature (0 = model default)")
	storyCmd.Flags().Int("max-tokens", 2000, "Maximum output tokens")
	storyCmd.Flags().Bool("context", false, "Retrieve reference excerpts from Milvus")
	storyCmd.Flags().Int("topk", 5, "Number of excerpts to retrieve with --context")
	storyCmd.Flags().String("collection", "", "Milvus collection (default $MILVUS_COLLECTION or gaia_embeddings)")
	storyCmd.Flags().String("milvus-address", "", "Milvus address (default $MILVUS_ADDRESS or localhost:19530)")
	storyCmd.Flags().String("export", "", "Also write the story to a file (.json or .md)")
	storyCmd.Flags().Bool("verbose", false, "Show detailed progress and context")
}

func storyLLMConfig(cmd *cobra.Command) narrative.LLMConfig {
	provider, _ := cmd.Flags().GetString("provider")
	temperature, _ := cmd.Flags().GetFloat32("temperature")
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")

	llmConfig := narrative.DefaultLLMConfig()
	llmConfig.Provider = narrative.Provider(strings.ToLower(provider))
	llmConfig.Model = modelOr(cmd, cfg.Model)
	llmConfig.Temperature = temperature
	llmConfig.MaxTokens = maxTokens
	llmConfig.APIKey = cfg.APIKey
	llmConfig.BaseURL = cfg.BaseURL
	return llmConfig
}

func runStory(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")
	ctx := commandContext(cmd)
	verbose, _ := cmd.Flags().GetBool("verbose")
	useContext, _ := cmd.Flags().GetBool("context")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render("Topic:"))
	fmt.Fprintln(out, promptStyle.Render(topic))
	fmt.Fprintln(out)

	var (
		narr   *narrative.Narrative
		chunks []rag.ContextChunk
	)

	if useContext {
		if err := cfg.Validate(); err != nil {
			return err
		}
		topK, _ := cmd.Flags().GetInt("topk")

		storyConfig := orchestrator.DefaultStoryConfig()
		storyConfig.TopK = topK
		storyConfig.APIKey = cfg.APIKey
		storyConfig.EmbedderModel = cfg.EmbeddingModel
		storyConfig.EmbedderDimension = cfg.EmbeddingDimension
		storyConfig.LLMConfig = storyLLMConfig(cmd)
		storyConfig.MilvusConfig.Address = cfg.MilvusAddress
		storyConfig.MilvusConfig.CollectionName = cfg.MilvusCollection

		if verbose {
			fmt.Fprintln(out, contextStyle.Render("→ Connecting to Milvus at "+cfg.MilvusAddress+"..."))
		}
		pipeline, err := orchestrator.NewStoryPipeline(ctx, storyConfig, logger, apiOptions()...)
		if err != nil {
			return fmt.Errorf("failed to create story pipeline: %w", err)
		}
		defer pipeline.Close()

		if verbose {
			fmt.Fprintln(out, contextStyle.Render("→ Retrieving relevant context and writing the story..."))
		}
		narr, chunks, err = pipeline.GenerateStory(ctx, topic)
		if err != nil {
			return err
		}
	} else {
		llmConfig := storyLLMConfig(cmd)
		llm, err := narrative.NewLLM(llmConfig, apiOptions()...)
		if err != nil {
			return err
		}

		narr, err = narrative.NewGenerator(llm, llmConfig).Tell(ctx, topic, nil)
		if err != nil {
			return err
		}
	}

	if verbose && len(chunks) > 0 {
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ Used %d excerpts", len(chunks))))
		for _, ch := range chunks {
			fmt.Fprintln(out, contextStyle.Render(fmt.Sprintf("  %s (%.2f)", ch.DocID, ch.Score)))
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, headerStyle.Render("Story:"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, answerStyle.Render(strings.TrimSpace(narr.Text)))
	fmt.Fprintln(out)

	if path, _ := cmd.Flags().GetString("export"); path != "" {
		return exportNarrative(cmd, narr, path)
	}
	return nil
}
