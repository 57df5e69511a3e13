package narrative

// ContextChunk is a piece of retrieved reference text for prompt assembly.
// It mirrors rag.ContextChunk but is defined here to keep the narrative package
// self-contained.
type ContextChunk struct {
	DocID string
	Text  string
	Score float32
}
