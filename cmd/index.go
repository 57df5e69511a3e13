package cmd

import (
	"fmt"

	"github.com/Yates-Labs/gaia/internal/orchestrator"
	"github.com/Yates-Labs/gaia/internal/rag"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index [files or directories...]",
	Short: "Embed documents and store them in Milvus",
	Long: `Embed text files with batchEmbedContents and store them in Milvus so that
"gaia story --context" and "gaia search" can retrieve them. Directories
are walked for .txt, .md and .rst files. Files larger than --chunk-size
are stored as several documents named <path>#1, <path>#2 and so on.
Documents already in the
collection are skipped unless --reindex is set.

Examples:
  gaia index ./notes
  gaia index chapter1.md chapter2.md --reindex`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find the indexed documents closest to a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(indexCmd, searchCmd)
	for _, c := range []*cobra.Command{indexCmd, searchCmd} {
		c.Flags().String("collection", "", "Milvus collection (default $MILVUS_COLLECTION or gaia_embeddings)")
		c.Flags().String("milvus-address", "", "Milvus address (default $MILVUS_ADDRESS or localhost:19530)")
		c.Flags().String("embedding-model", "", "Embedding model (default $GEMINI_EMBEDDING_MODEL or text-embedding-004)")
		c.Flags().Int("dimension", 0, "Embedding dimension (default $GEMINI_EMBEDDING_DIMENSION or 768)")
	}
	indexCmd.Flags().Bool("reindex", false, "Force reindexing of existing documents")
	indexCmd.Flags().Int("chunk-size", orchestrator.DefaultLoadConfig().ChunkSize, "Maximum bytes per stored document")
	indexCmd.Flags().Int("batch-size", rag.DefaultIndexOptions().BatchSize, "Documents per embedding request")
	searchCmd.Flags().Int("topk", 5, "Number of results")
}

// openStore builds the embedder and connects to the configured collection.
func openStore(cmd *cobra.Command) (*rag.GeminiEmbedder, *rag.MilvusStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	embedder, err := rag.NewGeminiEmbedder(cfg.APIKey, cfg.EmbeddingModel, cfg.EmbeddingDimension, apiOptions()...)
	if err != nil {
		return nil, nil, err
	}

	milvusConfig := rag.DefaultMilvusConfig()
	milvusConfig.Address = cfg.MilvusAddress
	milvusConfig.CollectionName = cfg.MilvusCollection
	milvusConfig.Dimension = cfg.EmbeddingDimension

	logger.Debugw("connecting to milvus", "address", milvusConfig.Address, "collection", milvusConfig.CollectionName)
	store, err := rag.NewMilvusStore(commandContext(cmd), milvusConfig)
	if err != nil {
		return nil, nil, err
	}
	return embedder, store, nil
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	loadConfig := orchestrator.DefaultLoadConfig()
	loadConfig.ChunkSize, _ = cmd.Flags().GetInt("chunk-size")

	docs, err := orchestrator.LoadDocumentsWithConfig(ctx, args, loadConfig)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No documents found")
		return nil
	}

	embedder, store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	reindex, _ := cmd.Flags().GetBool("reindex")
	opts := rag.DefaultIndexOptions()
	opts.BatchSize, _ = cmd.Flags().GetInt("batch-size")
	opts.ForceReindex = reindex
	opts.SkipExisting = !reindex

	n, err := rag.IndexDocuments(ctx, docs, embedder, store, opts)
	if err != nil {
		return fmt.Errorf("indexed %d of %d documents: %w", n, len(docs), err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ Indexed %d documents (%d already present)", n, len(docs)-n)))
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, err := promptFrom(cmd, args)
	if err != nil {
		return err
	}

	embedder, store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	retriever, err := rag.NewRetriever(embedder, store)
	if err != nil {
		return err
	}

	topK, _ := cmd.Flags().GetInt("topk")
	chunks, err := retriever.RetrieveContextForQuery(commandContext(cmd), query, topK, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(chunks) == 0 {
		fmt.Fprintln(out, "No matching documents")
		return nil
	}
	for i, ch := range chunks {
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%d. %s", i+1, ch.DocID))+" "+contextStyle.Render(fmt.Sprintf("(%.2f)", ch.Score)))
		fmt.Fprintln(out, answerStyle.Render(excerpt(ch.Text, 240)))
		fmt.Fprintln(out)
	}
	return nil
}

// excerpt shortens text to at most n runes.
func excerpt(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}
