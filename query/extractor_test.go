package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/metaquery/ai"
	"github.com/poiesic/metaquery/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractorProvenance(t *testing.T) {
	ctx := context.Background()

	t.Run("LLM path carries llm provenance", func(t *testing.T) {
		llm := mock.NewMockIntentExtractor()
		llm.ExtractIntentFunc = func(ctx context.Context, query string) (*ai.Intent, error) {
			return &ai.Intent{
				ProfileAttributes: []ai.AttributeQuery{{Name: "age", SearchText: "age: over 30"}},
			}, nil
		}

		extraction := NewExtractor(llm, time.Second).Extract(ctx, "users over 30")
		assert.Equal(t, ProvenanceLLM, extraction.Provenance)
		require.Len(t, extraction.Intent.ProfileAttributes, 1)
	})

	t.Run("LLM failure falls back to rules", func(t *testing.T) {
		llm := mock.NewMockIntentExtractor()
		llm.ExtractIntentFunc = func(ctx context.Context, query string) (*ai.Intent, error) {
			return nil, errors.New("model unavailable")
		}

		extraction := NewExtractor(llm, time.Second).Extract(ctx, "users who bought online")
		assert.Equal(t, ProvenanceRules, extraction.Provenance)
		assert.False(t, extraction.Intent.Empty())
	})

	t.Run("nil intent without error falls back to rules", func(t *testing.T) {
		llm := mock.NewMockIntentExtractor()
		llm.ExtractIntentFunc = func(ctx context.Context, query string) (*ai.Intent, error) {
			return nil, nil
		}

		extraction := NewExtractor(llm, time.Second).Extract(ctx, "users who bought online")
		assert.Equal(t, ProvenanceRules, extraction.Provenance)
		require.NotNil(t, extraction.Intent)
		assert.False(t, extraction.Intent.Empty())
	})

	t.Run("LLM timeout falls back to rules", func(t *testing.T) {
		llm := mock.NewMockIntentExtractor()
		llm.ExtractIntentFunc = func(ctx context.Context, query string) (*ai.Intent, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}

		extraction := NewExtractor(llm, 10*time.Millisecond).Extract(ctx, "income level")
		assert.Equal(t, ProvenanceRules, extraction.Provenance)
		require.Len(t, extraction.Intent.ProfileAttributes, 1)
		assert.Equal(t, "income", extraction.Intent.ProfileAttributes[0].Name)
	})
}

func TestExtractWithRules(t *testing.T) {
	t.Run("attribute keywords", func(t *testing.T) {
		intent := extractWithRules("show me age and income by city")
		require.Len(t, intent.ProfileAttributes, 3)
		assert.Empty(t, intent.Events)

		names := []string{
			intent.ProfileAttributes[0].Name,
			intent.ProfileAttributes[1].Name,
			intent.ProfileAttributes[2].Name,
		}
		assert.ElementsMatch(t, []string{"age", "city", "income"}, names)
	})

	t.Run("event keywords", func(t *testing.T) {
		intent := extractWithRules("people who bought something after login")
		assert.Empty(t, intent.ProfileAttributes)
		require.Len(t, intent.Events, 2)
	})

	t.Run("no keywords becomes catch-all attribute", func(t *testing.T) {
		intent := extractWithRules("something entirely unrelated")
		require.Len(t, intent.ProfileAttributes, 1)
		assert.Equal(t, "general", intent.ProfileAttributes[0].Name)
		assert.Equal(t, "something entirely unrelated", intent.ProfileAttributes[0].SearchText)
	})

	t.Run("blank query extracts nothing", func(t *testing.T) {
		assert.True(t, extractWithRules("   ").Empty())
	})
}
