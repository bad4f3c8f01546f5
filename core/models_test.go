package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := IDFromContent("(EVENT,,buy_online)")
		b := IDFromContent("(EVENT,,buy_online)")
		assert.Equal(t, a, b)
	})

	t.Run("distinct content produces distinct ids", func(t *testing.T) {
		a := IDFromContent("(EVENT,,buy_online)")
		b := IDFromContent("(EVENT,,buy_offline)")
		assert.NotEqual(t, a, b)
	})

	t.Run("empty content is valid", func(t *testing.T) {
		assert.NotZero(t, IDFromContent(""))
	})
}

func TestCatalogRecordIdentity(t *testing.T) {
	record := &CatalogRecord{
		Type:     RecordTypeEventAttribute,
		GroupKey: "buy_online",
		FieldId:  "purchase_amount",
	}
	assert.Equal(t, "(EVENT_ATTRIBUTE,buy_online,purchase_amount)", record.Identity())
}

func TestStageResultFailed(t *testing.T) {
	assert.False(t, StageResult{}.Failed())
	assert.True(t, StageResult{Diagnostic: "embedding service unavailable"}.Failed())
}

// The answer document is consumed by external callers, so the wire
// field names are part of the contract.
func TestAnswerJSONFieldNames(t *testing.T) {
	answer := Answer{
		Query:      "users who bought online",
		IntentType: "event",
		Events: []Item{{
			FieldId:     "buy_online",
			DisplayName: "Buy Online",
			SearchText:  "purchase",
			Score:       0.9,
			Confidence:  ConfidenceHigh,
		}},
		EventAttributes: []Item{{
			FieldId:    "purchase_amount",
			GroupKey:   "buy_online",
			SearchText: "purchase amount",
			Score:      0.88,
			Confidence: ConfidenceHigh,
		}},
		Summary:          "Matched events: Buy Online",
		TotalResults:     2,
		ConfidenceScore:  0.89,
		HasAmbiguity:     false,
		AmbiguousOptions: []AmbiguityGroup{},
	}

	data, err := json.Marshal(answer)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, field := range []string{
		"query", "intent_type", "profile_attributes", "events",
		"event_attributes", "summary", "total_results",
		"confidence_score", "has_ambiguity", "ambiguous_options",
		"execution_time",
	} {
		assert.Contains(t, decoded, field)
	}

	eventAttrs, ok := decoded["event_attributes"].([]any)
	require.True(t, ok)
	require.Len(t, eventAttrs, 1)
	attr, ok := eventAttrs[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "buy_online", attr["event_idname"])
	assert.Equal(t, "purchase_amount", attr["idname"])
}
