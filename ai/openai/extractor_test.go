package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDecomposition(t *testing.T, raw string) *decomposition {
	t.Helper()
	var d decomposition
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return &d
}

func TestBuildIntent(t *testing.T) {
	t.Run("object attributes carry constraints", func(t *testing.T) {
		d := parseDecomposition(t, `{
			"person_attributes": {"age": "over 30", "gender": "female"},
			"behavioral_events": []
		}`)

		intent := buildIntent(d)
		require.Len(t, intent.ProfileAttributes, 2)
		// Keys are sorted for deterministic output
		assert.Equal(t, "age", intent.ProfileAttributes[0].Name)
		assert.Equal(t, "age: over 30", intent.ProfileAttributes[0].SearchText)
		assert.Equal(t, "gender: female", intent.ProfileAttributes[1].SearchText)
		assert.Empty(t, intent.Events)
	})

	t.Run("list attributes search by name alone", func(t *testing.T) {
		d := parseDecomposition(t, `{
			"person_attributes": ["age", "city"],
			"behavioral_events": []
		}`)

		intent := buildIntent(d)
		require.Len(t, intent.ProfileAttributes, 2)
		assert.Equal(t, "age", intent.ProfileAttributes[0].SearchText)
		assert.Equal(t, "city", intent.ProfileAttributes[1].SearchText)
	})

	t.Run("events with object attributes", func(t *testing.T) {
		d := parseDecomposition(t, `{
			"person_attributes": {},
			"behavioral_events": [
				{"event_type": "bought online", "attributes": {"frequency": "at least 3 times"}}
			]
		}`)

		intent := buildIntent(d)
		require.Len(t, intent.Events, 1)
		assert.Equal(t, "bought online", intent.Events[0].SearchText)
		assert.Equal(t, []string{"frequency: at least 3 times"}, intent.Events[0].AttributeTexts)
	})

	t.Run("events with list attributes", func(t *testing.T) {
		d := parseDecomposition(t, `{
			"person_attributes": {},
			"behavioral_events": [
				{"event_type": "purchase", "attributes": ["amount", "channel"]}
			]
		}`)

		intent := buildIntent(d)
		require.Len(t, intent.Events, 1)
		assert.Equal(t, []string{"amount", "channel"}, intent.Events[0].AttributeTexts)
	})

	t.Run("event_description fallback", func(t *testing.T) {
		d := parseDecomposition(t, `{
			"person_attributes": {},
			"behavioral_events": [{"event_description": "visited the store"}]
		}`)

		intent := buildIntent(d)
		require.Len(t, intent.Events, 1)
		assert.Equal(t, "visited the store", intent.Events[0].SearchText)
	})

	t.Run("events without any description are dropped", func(t *testing.T) {
		d := parseDecomposition(t, `{
			"person_attributes": {},
			"behavioral_events": [{"attributes": {"amount": "over 100"}}]
		}`)

		intent := buildIntent(d)
		assert.Empty(t, intent.Events)
		assert.True(t, intent.Empty())
	})

	t.Run("mixed intent", func(t *testing.T) {
		d := parseDecomposition(t, `{
			"person_attributes": {"age": "over 30"},
			"behavioral_events": [{"event_type": "registered", "attributes": {"channel": "mobile app"}}]
		}`)

		intent := buildIntent(d)
		assert.Len(t, intent.ProfileAttributes, 1)
		assert.Len(t, intent.Events, 1)
		assert.Equal(t, []string{"channel: mobile app"}, intent.EventAttributeTexts())
	})
}

func TestRepairJSON(t *testing.T) {
	t.Run("valid JSON unchanged", func(t *testing.T) {
		in := `{"person_attributes": {"age": "over 30"}, "behavioral_events": []}`
		assert.Equal(t, in, repairJSON(in))
	})

	t.Run("missing opening quote on key", func(t *testing.T) {
		in := `{person_attributes": {}, "behavioral_events": []}`
		out := repairJSON(in)
		assert.True(t, json.Valid([]byte(out)), "repaired: %s", out)
	})

	t.Run("trailing comma in object", func(t *testing.T) {
		in := `{"person_attributes": {"age": "over 30",}, "behavioral_events": [],}`
		out := repairJSON(in)
		assert.True(t, json.Valid([]byte(out)), "repaired: %s", out)
	})

	t.Run("comma inside string survives", func(t *testing.T) {
		in := `{"person_attributes": {"age": "30, maybe 40"}, "behavioral_events": []}`
		assert.Equal(t, in, repairJSON(in))
	})
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "users over 30", normalizeQuery("  users   over\t30 \n"))
	assert.Equal(t, "aged 25-35", normalizeQuery("aged 25-35"))
}
