package query

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/metaquery/ai"
	"github.com/poiesic/metaquery/core"
	"github.com/poiesic/metaquery/index"
)

// Stages return everything the index gives up to the limit; similarity
// filtering happens once, centrally, in the aggregator.
const noFloor = float32(-1)

// Stage names used for logging and monitoring.
const (
	StageAttribute      = "attribute"
	StageEvent          = "event"
	StageEventAttribute = "event_attribute"
)

// stageRunner executes retrieval stages against the shared index.
// It is safe for concurrent use; the two branches of a mixed plan call
// into one runner simultaneously.
type stageRunner struct {
	embedder ai.Embedder
	searcher index.Searcher
	config   *Config
	logger   *slog.Logger
}

func newStageRunner(embedder ai.Embedder, searcher index.Searcher, config *Config) *stageRunner {
	return &stageRunner{
		embedder: embedder,
		searcher: searcher,
		config:   config,
		logger:   slog.Default().With("component", "stage-runner"),
	}
}

// searchAttributes runs the profile-attribute stage.
func (s *stageRunner) searchAttributes(ctx context.Context, texts []string) core.StageResult {
	filter := index.Filter{Type: core.RecordTypeProfileAttribute}
	return s.run(ctx, StageAttribute, texts, filter, s.config.AttributeLimit)
}

// searchEvents runs the event stage.
func (s *stageRunner) searchEvents(ctx context.Context, texts []string) core.StageResult {
	filter := index.Filter{Type: core.RecordTypeEvent}
	return s.run(ctx, StageEvent, texts, filter, s.config.EventLimit)
}

// searchEventAttributes runs the event-attribute stage, scoped to the
// event identifiers discovered by the event stage. With no event IDs
// there is nothing to scope to, so the stage skips its embedding call
// entirely and returns empty.
func (s *stageRunner) searchEventAttributes(ctx context.Context, texts []string, eventIds []string) core.StageResult {
	if len(eventIds) == 0 {
		s.logger.Debug("skipping event-attribute stage, no events discovered")
		return core.StageResult{}
	}
	filter := index.Filter{Type: core.RecordTypeEventAttribute, GroupKeys: eventIds}
	return s.run(ctx, StageEventAttribute, texts, filter, s.config.EventAttributeLimit)
}

// run executes one stage: a single batched embedding call for all
// search texts, then one similarity query per vector. Failures are
// absorbed into an empty result with a diagnostic; a stage never aborts
// the run or its sibling stages.
func (s *stageRunner) run(ctx context.Context, stage string, texts []string, filter index.Filter, limit int) core.StageResult {
	if len(texts) == 0 {
		return core.StageResult{}
	}

	stageCtx, cancel := context.WithTimeout(ctx, s.config.StageTimeout)
	defer cancel()

	vectors, err := s.embedder.EmbedTexts(stageCtx, texts)
	if err != nil {
		s.logger.Warn("stage embedding failed", "stage", stage, "err", err)
		return core.StageResult{Diagnostic: fmt.Sprintf("%s: embedding failed: %v", stage, err)}
	}
	if len(vectors) != len(texts) {
		s.logger.Warn("stage embedding returned wrong count",
			"stage", stage, "want", len(texts), "got", len(vectors))
		return core.StageResult{Diagnostic: fmt.Sprintf("%s: embedding returned %d vectors for %d texts", stage, len(vectors), len(texts))}
	}

	var result core.StageResult
	for i, vector := range vectors {
		hits, err := s.searcher.Search(stageCtx, vector, filter, noFloor, limit)
		if err != nil {
			s.logger.Warn("stage search failed", "stage", stage, "text", texts[i], "err", err)
			return core.StageResult{Diagnostic: fmt.Sprintf("%s: search failed: %v", stage, err)}
		}

		for _, hit := range hits {
			stageHit := core.StageHit{
				Hit:        hit,
				SearchText: texts[i],
			}
			if hit.Type == core.RecordTypeEventAttribute {
				stageHit.ParentEventId = hit.GroupKey
			}
			result.Hits = append(result.Hits, stageHit)
		}
	}

	s.logger.Debug("stage completed", "stage", stage, "texts", len(texts), "hits", len(result.Hits))
	return result
}
