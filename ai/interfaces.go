package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// IntentExtractor decomposes a natural-language query into structured
// search intent. Implementations must be thread-safe for concurrent use.
type IntentExtractor interface {
	// ExtractIntent analyzes a query and separates what the user is asking
	// about into person-level attribute requests and behavioral event
	// requests, each carrying the phrase to search the catalog with.
	// Returns an error if extraction fails; callers are expected to fall
	// back to rule-based extraction in that case.
	ExtractIntent(ctx context.Context, query string) (*Intent, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and IntentExtractor instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// IntentExtractor returns the intent extraction service.
	// The returned IntentExtractor is safe for concurrent use.
	IntentExtractor() IntentExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
