package query

import (
	"strings"

	"github.com/poiesic/metaquery/ai"
)

// Keyword tables for the rule-based fallback extractor. Matching is
// case-insensitive substring search, so "purchases" matches "purchase".
var (
	attributeKeywords = []string{
		"age", "gender", "city", "location", "occupation", "income",
		"education", "email", "phone",
	}

	eventKeywords = []string{
		"purchase", "buy", "bought", "order", "login", "register",
		"signup", "browse", "click", "view", "pay", "checkout",
		"subscribe", "churn",
	}
)

// extractWithRules is the deterministic fallback for LLM extraction.
// It scans the query for known attribute and event keywords. A query
// that matches nothing becomes a single catch-all attribute search over
// the full query text, so downstream stages always have work shaped the
// same way as the LLM path produces.
func extractWithRules(queryText string) *ai.Intent {
	lower := strings.ToLower(queryText)
	intent := &ai.Intent{}

	for _, keyword := range attributeKeywords {
		if strings.Contains(lower, keyword) {
			intent.ProfileAttributes = append(intent.ProfileAttributes, ai.AttributeQuery{
				Name:       keyword,
				SearchText: keyword,
			})
		}
	}

	for _, keyword := range eventKeywords {
		if strings.Contains(lower, keyword) {
			intent.Events = append(intent.Events, ai.EventQuery{
				SearchText: keyword,
			})
		}
	}

	if intent.Empty() && strings.TrimSpace(queryText) != "" {
		intent.ProfileAttributes = append(intent.ProfileAttributes, ai.AttributeQuery{
			Name:       "general",
			SearchText: strings.TrimSpace(queryText),
		})
	}

	return intent
}
