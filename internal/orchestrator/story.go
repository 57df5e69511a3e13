package orchestrator

import (
	"context"
	"fmt"

	"github.com/Yates-Labs/gaia/internal/genai"
	"github.com/Yates-Labs/gaia/internal/narrative"
	"github.com/Yates-Labs/gaia/internal/rag"
	"go.uber.org/zap"
)

// StoryConfig holds configuration for retrieval-augmented story generation.
type StoryConfig struct {
	// TopK is the number of similar documents to retrieve as context
	TopK int

	// MaxContextSize is the maximum number of context chunks to include in the prompt
	MaxContextSize int

	// ReindexOnDemand forces re-indexing of documents that are already stored
	ReindexOnDemand bool

	// APIKey authenticates the embedding calls
	APIKey string

	// EmbedderModel is the model to use for embeddings (e.g., "text-embedding-004")
	EmbedderModel string

	// EmbedderDimension is the vector dimension for embeddings
	EmbedderDimension int

	// LLMConfig holds the LLM configuration for story generation
	LLMConfig narrative.LLMConfig

	// MilvusConfig holds the Milvus vector store configuration
	MilvusConfig rag.MilvusConfig
}

// DefaultStoryConfig returns sensible defaults for the story pipeline.
func DefaultStoryConfig() StoryConfig {
	return StoryConfig{
		TopK:              5,
		MaxContextSize:    10,
		ReindexOnDemand:   false,
		EmbedderModel:     "text-embedding-004",
		EmbedderDimension: 768,
		LLMConfig:         narrative.DefaultLLMConfig(),
		MilvusConfig:      rag.DefaultMilvusConfig(),
	}
}

// StoryPipeline indexes reference documents and writes stories grounded on
// the most relevant of them.
type StoryPipeline struct {
	config      StoryConfig
	embedder    rag.Embedder
	vectorStore rag.VectorStore
	retriever   *rag.Retriever
	generator   *narrative.Generator
	log         *zap.SugaredLogger
}

// NewStoryPipeline connects to Milvus and builds the embedder and LLM.
// opts configure every Gemini request function the pipeline creates.
func NewStoryPipeline(ctx context.Context, config StoryConfig, log *zap.SugaredLogger, opts ...genai.Option) (*StoryPipeline, error) {
	embedder, err := rag.NewGeminiEmbedder(config.APIKey, config.EmbedderModel, config.EmbedderDimension, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	llm, err := narrative.NewLLM(config.LLMConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM: %w", err)
	}

	config.MilvusConfig.Dimension = config.EmbedderDimension
	vectorStore, err := rag.NewMilvusStore(ctx, config.MilvusConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vector store: %w", err)
	}

	p, err := newStoryPipeline(config, embedder, vectorStore, llm, log)
	if err != nil {
		vectorStore.Close()
		return nil, err
	}
	return p, nil
}

func newStoryPipeline(config StoryConfig, embedder rag.Embedder, vectorStore rag.VectorStore, llm narrative.LLM, log *zap.SugaredLogger) (*StoryPipeline, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	retriever, err := rag.NewRetriever(embedder, vectorStore)
	if err != nil {
		return nil, fmt.Errorf("failed to create retriever: %w", err)
	}

	return &StoryPipeline{
		config:      config,
		embedder:    embedder,
		vectorStore: vectorStore,
		retriever:   retriever,
		generator:   narrative.NewGenerator(llm, config.LLMConfig),
		log:         log,
	}, nil
}

// Close releases resources held by the pipeline.
func (p *StoryPipeline) Close() error {
	if p.vectorStore != nil {
		return p.vectorStore.Close()
	}
	return nil
}

// IndexDocuments stores documents so they can be retrieved as story context.
func (p *StoryPipeline) IndexDocuments(ctx context.Context, docs []rag.Document) (int, error) {
	p.log.Infow("indexing documents", "count", len(docs))

	opts := rag.DefaultIndexOptions()
	opts.ForceReindex = p.config.ReindexOnDemand
	opts.SkipExisting = !p.config.ReindexOnDemand

	n, err := rag.IndexDocuments(ctx, docs, p.embedder, p.vectorStore, opts)
	if err != nil {
		return n, fmt.Errorf("failed to index documents: %w", err)
	}

	p.log.Infow("indexed documents", "indexed", n, "skipped", len(docs)-n)
	return n, nil
}

// GenerateStory writes a story about topic using the closest documents as
// reference material. The chunks used are returned alongside the story.
func (p *StoryPipeline) GenerateStory(ctx context.Context, topic string) (*narrative.Narrative, []rag.ContextChunk, error) {
	// Stage 1: Retrieval
	p.log.Debugw("retrieving context", "topic", topic, "topk", p.config.TopK)
	chunks, err := p.retriever.RetrieveContextForQuery(ctx, topic, p.config.TopK, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieval failed: %w", err)
	}

	if p.config.MaxContextSize > 0 && len(chunks) > p.config.MaxContextSize {
		chunks = chunks[:p.config.MaxContextSize]
		p.log.Debugw("trimmed context", "max", p.config.MaxContextSize)
	}

	// Stage 2: Prompt assembly and generation
	narr, err := p.generator.Tell(ctx, topic, toNarrativeChunks(chunks))
	if err != nil {
		return nil, nil, fmt.Errorf("story generation failed: %w", err)
	}
	p.log.Debugw("generated story", "chunks", len(chunks), "prompt_chars", len(narr.Prompt),
		"words", narr.WordCount(), "elapsed", narr.Elapsed)

	return narr, chunks, nil
}

func toNarrativeChunks(chunks []rag.ContextChunk) []narrative.ContextChunk {
	out := make([]narrative.ContextChunk, len(chunks))
	for i, ch := range chunks {
		out[i] = narrative.ContextChunk{DocID: ch.DocID, Text: ch.Text, Score: ch.Score}
	}
	return out
}
