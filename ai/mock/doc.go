// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.IntentExtractor,
// and ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	embeddings, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockExtractor := mock.NewMockIntentExtractor()
//	mockExtractor.ExtractIntentFunc = func(ctx context.Context, query string) (*ai.Intent, error) {
//	    return &ai.Intent{Events: []ai.EventQuery{{SearchText: "purchase"}}}, nil
//	}
//
//	// Check call counts
//	count := mockExtractor.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockIntentExtractor: Splits queries on a few hardcoded event verbs
//   - MockProvider: Aggregates mock embedder and extractor
package mock
