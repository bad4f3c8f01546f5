package mock

import (
	"context"
	"strings"

	"github.com/poiesic/metaquery/ai"
)

// MockIntentExtractor is a test double for ai.IntentExtractor.
// It allows custom behavior injection via function fields.
type MockIntentExtractor struct {
	// ExtractIntentFunc is called by ExtractIntent if set.
	// If nil, uses default keyword-based behavior.
	ExtractIntentFunc func(ctx context.Context, query string) (*ai.Intent, error)

	callCount int
}

// NewMockIntentExtractor creates a mock intent extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockIntentExtractor() *MockIntentExtractor {
	return &MockIntentExtractor{}
}

// ExtractIntent extracts a simple mock intent from a query.
// Default behavior: words containing "bought"/"purchase"/"login" become an
// event request, everything else becomes one profile attribute request.
func (m *MockIntentExtractor) ExtractIntent(ctx context.Context, query string) (*ai.Intent, error) {
	m.callCount++

	if m.ExtractIntentFunc != nil {
		return m.ExtractIntentFunc(ctx, query)
	}

	intent := &ai.Intent{}
	lower := strings.ToLower(query)

	for _, verb := range []string{"bought", "purchase", "login"} {
		if strings.Contains(lower, verb) {
			intent.Events = append(intent.Events, ai.EventQuery{SearchText: verb})
		}
	}

	if len(intent.Events) == 0 && strings.TrimSpace(query) != "" {
		intent.ProfileAttributes = append(intent.ProfileAttributes, ai.AttributeQuery{
			Name:       "general",
			SearchText: strings.TrimSpace(query),
		})
	}

	return intent, nil
}

// CallCount returns the number of times ExtractIntent was called.
func (m *MockIntentExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockIntentExtractor) Reset() {
	m.callCount = 0
	m.ExtractIntentFunc = nil
}
