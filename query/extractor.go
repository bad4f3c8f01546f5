package query

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/metaquery/ai"
)

// Provenance records which extraction path produced an intent.
type Provenance string

const (
	// ProvenanceLLM marks an intent produced by the LLM extractor.
	ProvenanceLLM Provenance = "llm"
	// ProvenanceRules marks an intent produced by the rule-based fallback.
	ProvenanceRules Provenance = "rules"
)

// Extraction pairs a structured intent with its provenance. Both paths
// share the same intent shape so downstream components stay
// extraction-method-agnostic; provenance is carried for logging and
// confidence down-weighting.
type Extraction struct {
	Intent     *ai.Intent
	Provenance Provenance
}

// Extractor turns raw query text into a structured intent. It never
// fails outwardly: the LLM path runs under a bounded timeout, and any
// error, timeout, or malformed output degrades to the rule-based
// fallback instead of propagating.
type Extractor struct {
	llm     ai.IntentExtractor
	timeout time.Duration
	logger  *slog.Logger
}

// NewExtractor creates an extractor backed by the given LLM extractor.
func NewExtractor(llm ai.IntentExtractor, timeout time.Duration) *Extractor {
	return &Extractor{
		llm:     llm,
		timeout: timeout,
		logger:  slog.Default().With("component", "intent-extractor"),
	}
}

// Extract produces a structured intent for the query.
func (e *Extractor) Extract(ctx context.Context, queryText string) Extraction {
	llmCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	intent, err := e.llm.ExtractIntent(llmCtx, queryText)
	if err != nil || intent == nil {
		e.logger.Warn("LLM extraction unusable, using rule-based fallback", "err", err)
		return Extraction{
			Intent:     extractWithRules(queryText),
			Provenance: ProvenanceRules,
		}
	}

	e.logger.Debug("LLM extraction succeeded",
		"attributes", len(intent.ProfileAttributes),
		"events", len(intent.Events))
	return Extraction{
		Intent:     intent,
		Provenance: ProvenanceLLM,
	}
}
