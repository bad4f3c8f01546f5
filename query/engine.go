// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package query

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/poiesic/metaquery/ai"
	"github.com/poiesic/metaquery/core"
	"github.com/poiesic/metaquery/index"
)

// State names one phase of an orchestration run.
type State string

const (
	StateStart       State = "START"
	StateExtracting  State = "EXTRACTING"
	StateRouting     State = "ROUTING"
	StateExecuting   State = "EXECUTING"
	StateAggregating State = "AGGREGATING"
	StateDone        State = "DONE"
)

// Engine orchestrates one query end to end: intent extraction, routing,
// stage execution, and aggregation. An engine is safe for concurrent
// use; each run owns its own in-memory state and shares only the
// read-only configuration and the thread-safe collaborator handles.
type Engine struct {
	extractor  *Extractor
	stages     *stageRunner
	aggregator *Aggregator
	config     *Config
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(e *Engine) error {
		if config == nil {
			return ErrConfigRequired
		}
		e.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a query engine over the given catalog index and AI
// provider. Configuration faults surface here, before any run starts;
// per-query failures never do.
func NewEngine(searcher index.Searcher, provider ai.AIProvider, opts ...Option) (*Engine, error) {
	if searcher == nil {
		return nil, ErrIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	e := &Engine{
		config: DefaultConfig(),
		logger: slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	if err := e.config.Validate(); err != nil {
		return nil, err
	}

	e.extractor = NewExtractor(provider.IntentExtractor(), e.config.ExtractTimeout)
	e.stages = newStageRunner(provider.Embedder(), searcher, e.config)
	e.aggregator = NewAggregator(e.config)
	return e, nil
}

// ProcessQuery answers a natural-language query against the catalog.
// A well-formed answer is always returned for a valid query; extraction
// and stage failures degrade the answer instead of failing the call.
func (e *Engine) ProcessQuery(ctx context.Context, queryText string) (*core.Answer, error) {
	return e.ProcessQueryWithMonitor(ctx, queryText, nil)
}

// ProcessQueryWithMonitor answers a query with run observation hooks.
// The monitor receives callbacks at each state transition.
func (e *Engine) ProcessQueryWithMonitor(ctx context.Context, queryText string, monitor QueryMonitor) (*core.Answer, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	start := time.Now()
	runId := uuid.NewString()
	logger := e.logger.With("run", runId)
	state := StateStart

	// The whole run shares one deadline. When it elapses, in-flight
	// stage calls are cancelled and the run proceeds to aggregation
	// with whatever results have completed.
	runCtx, cancel := context.WithTimeout(ctx, e.config.QueryTimeout)
	defer cancel()

	monitor.Start(queryText)
	logger.Info("processing query", "query", queryText)

	transition := func(to State) {
		monitor.StateChanged(state, to)
		logger.Debug("state transition", "from", state, "to", to, "elapsed", time.Since(start))
		state = to
	}

	transition(StateExtracting)
	extraction := e.extractor.Extract(runCtx, queryText)
	monitor.AfterExtraction(extraction)

	transition(StateRouting)
	plan := Route(extraction.Intent)
	monitor.AfterRouting(plan)
	logger.Debug("routed query", "plan", plan.String(), "provenance", extraction.Provenance)

	transition(StateExecuting)
	attrResult, eventResult, eventAttrResult := e.execute(runCtx, plan, extraction.Intent, monitor)

	transition(StateAggregating)
	answer := e.aggregator.Aggregate(queryText, plan, extraction.Provenance,
		attrResult, eventResult, eventAttrResult, time.Since(start))

	transition(StateDone)
	monitor.Finish(answer)
	logger.Info("query complete",
		"plan", plan.String(),
		"results", answer.TotalResults,
		"confidence", answer.ConfidenceScore,
		"elapsed", time.Since(start))
	return answer, nil
}

// execute runs the stages the plan selects. Under a mixed plan the
// attribute and event stages run concurrently and join before the
// event-attribute stage starts; the event-attribute stage never sees
// partial event output.
func (e *Engine) execute(ctx context.Context, plan Plan, intent *ai.Intent, monitor QueryMonitor) (attrResult, eventResult, eventAttrResult core.StageResult) {
	attributeTexts := make([]string, 0, len(intent.ProfileAttributes))
	for _, attr := range intent.ProfileAttributes {
		attributeTexts = append(attributeTexts, attr.SearchText)
	}
	eventTexts := make([]string, 0, len(intent.Events))
	for _, event := range intent.Events {
		eventTexts = append(eventTexts, event.SearchText)
	}

	switch plan {
	case PlanAttributeOnly:
		attrResult = e.stages.searchAttributes(ctx, attributeTexts)
		monitor.StageCompleted(StageAttribute, attrResult)
		return attrResult, eventResult, eventAttrResult

	case PlanEventOnly:
		eventResult = e.stages.searchEvents(ctx, eventTexts)
		monitor.StageCompleted(StageEvent, eventResult)

	case PlanMixed:
		g, groupCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			attrResult = e.stages.searchAttributes(groupCtx, attributeTexts)
			return nil
		})
		g.Go(func() error {
			eventResult = e.stages.searchEvents(groupCtx, eventTexts)
			return nil
		})
		// Stages absorb their own failures, so the join never errors.
		_ = g.Wait()
		monitor.StageCompleted(StageAttribute, attrResult)
		monitor.StageCompleted(StageEvent, eventResult)
	}

	eventAttrResult = e.stages.searchEventAttributes(ctx,
		intent.EventAttributeTexts(), discoveredEventIds(eventResult))
	monitor.StageCompleted(StageEventAttribute, eventAttrResult)
	return attrResult, eventResult, eventAttrResult
}

// discoveredEventIds collects the unique event identifiers from the
// event stage, preserving hit order.
func discoveredEventIds(result core.StageResult) []string {
	seen := make(map[string]bool, len(result.Hits))
	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		if hit.Hit.FieldId == "" || seen[hit.Hit.FieldId] {
			continue
		}
		seen[hit.Hit.FieldId] = true
		ids = append(ids, hit.Hit.FieldId)
	}
	return ids
}
