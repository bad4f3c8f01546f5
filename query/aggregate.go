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
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/poiesic/metaquery/core"
)

// Ambiguity group category names.
const (
	categoryProfileAttribute = "profile"
	categoryEvent            = "event"
	categoryEventAttribute   = "event_attribute"
)

// ruleProvenanceDamping scales the overall confidence score when the
// intent came from the rule-based fallback instead of the LLM.
const ruleProvenanceDamping = 0.8

// Aggregator merges raw stage hits into one final answer. It never
// fails: empty or failed stages simply contribute nothing.
type Aggregator struct {
	config *Config
	logger *slog.Logger
}

// NewAggregator creates an aggregator with the given configuration.
func NewAggregator(config *Config) *Aggregator {
	return &Aggregator{
		config: config,
		logger: slog.Default().With("component", "aggregator"),
	}
}

// Aggregate builds the final answer from the three stage results.
//
// Pipeline per category: dedup by record ID keeping the best score,
// filter by the similarity threshold, then collapse ambiguous groups to
// their best candidate. Event attributes additionally pass a linkage
// check against the accepted events. The overall confidence score is
// the mean of accepted scores, down-weighted for rule-derived intents.
func (a *Aggregator) Aggregate(
	queryText string,
	plan Plan,
	provenance Provenance,
	attrResult, eventResult, eventAttrResult core.StageResult,
	elapsed time.Duration,
) *core.Answer {
	attrs, attrGroups := a.reduceCategory(categoryProfileAttribute, attrResult, nil)
	events, eventGroups := a.reduceCategory(categoryEvent, eventResult, nil)

	// Linkage repair: an event-attribute item must belong to an event
	// that made it into the final answer.
	acceptedEvents := make(map[string]bool, len(events))
	for _, event := range events {
		acceptedEvents[event.FieldId] = true
	}
	eventAttrs, eventAttrGroups := a.reduceCategory(categoryEventAttribute, eventAttrResult, acceptedEvents)

	groups := make([]core.AmbiguityGroup, 0, len(attrGroups)+len(eventGroups)+len(eventAttrGroups))
	groups = append(groups, attrGroups...)
	groups = append(groups, eventGroups...)
	groups = append(groups, eventAttrGroups...)

	answer := &core.Answer{
		Query:             queryText,
		IntentType:        plan.String(),
		ProfileAttributes: attrs,
		Events:            events,
		EventAttributes:   eventAttrs,
		Summary:           buildSummary(attrs, events, eventAttrs),
		TotalResults:      len(attrs) + len(events) + len(eventAttrs),
		ConfidenceScore:   a.confidenceScore(provenance, attrs, events, eventAttrs),
		HasAmbiguity:      len(groups) > 0,
		AmbiguousOptions:  groups,
		ExecutionTime:     elapsed.Seconds(),
	}

	a.logger.Debug("aggregation complete",
		"total", answer.TotalResults,
		"confidence", answer.ConfidenceScore,
		"ambiguityGroups", len(groups))
	return answer
}

// dedupEntry tracks the best hit for one record ID plus the other
// search phrases that also matched it.
type dedupEntry struct {
	best      core.StageHit
	secondary []string
}

// reduceCategory runs the per-category pipeline. acceptedParents, when
// non-nil, drops items whose group key is not an accepted parent before
// ambiguity detection (used for event attributes only).
func (a *Aggregator) reduceCategory(category string, result core.StageResult, acceptedParents map[string]bool) ([]core.Item, []core.AmbiguityGroup) {
	// 1. Dedup by record ID, keeping the highest score.
	order := make([]core.ID, 0, len(result.Hits))
	entries := make(map[core.ID]*dedupEntry, len(result.Hits))
	for _, hit := range result.Hits {
		entry, seen := entries[hit.Hit.RecordId]
		if !seen {
			entries[hit.Hit.RecordId] = &dedupEntry{best: hit}
			order = append(order, hit.Hit.RecordId)
			continue
		}
		if hit.Hit.Score > entry.best.Hit.Score {
			entry.secondary = appendPhrase(entry.secondary, entry.best.SearchText, hit.SearchText)
			entry.best = hit
		} else {
			entry.secondary = appendPhrase(entry.secondary, hit.SearchText, entry.best.SearchText)
		}
	}

	// 2. Threshold filter and item construction.
	items := make([]core.Item, 0, len(order))
	for _, id := range order {
		entry := entries[id]
		if entry.best.Hit.Score < a.config.SimilarityThreshold {
			continue
		}
		if acceptedParents != nil && !acceptedParents[entry.best.Hit.GroupKey] {
			a.logger.Debug("dropping orphaned event attribute",
				"fieldId", entry.best.Hit.FieldId,
				"groupKey", entry.best.Hit.GroupKey)
			continue
		}
		items = append(items, a.buildItem(category, entry))
	}

	// 3. Ambiguity detection per search phrase: a group with two or
	// more near-tied candidates is surfaced as advisory, and only the
	// best candidate stays in the normal list.
	byText := make(map[string][]core.Item)
	textOrder := make([]string, 0, len(items))
	for _, item := range items {
		if _, seen := byText[item.SearchText]; !seen {
			textOrder = append(textOrder, item.SearchText)
		}
		byText[item.SearchText] = append(byText[item.SearchText], item)
	}

	var kept []core.Item
	var groups []core.AmbiguityGroup
	for _, text := range textOrder {
		group := byText[text]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Score > group[j].Score
		})

		var tied []core.Item
		for _, item := range group {
			if item.Score >= a.config.AmbiguityThreshold {
				tied = append(tied, item)
			}
		}

		if len(tied) > 1 {
			groups = append(groups, core.AmbiguityGroup{
				Category:   category,
				SearchText: text,
				Candidates: tied,
			})
			// Only the tied set collapses to its best candidate;
			// survivors below the ambiguity threshold stay in the
			// normal list.
			kept = append(kept, group[0])
			kept = append(kept, group[len(tied):]...)
			continue
		}
		kept = append(kept, group...)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	// Non-nil so the answer serializes to [] instead of null.
	if kept == nil {
		kept = []core.Item{}
	}
	return kept, groups
}

// buildItem converts a deduplicated hit into an answer item.
func (a *Aggregator) buildItem(category string, entry *dedupEntry) core.Item {
	item := core.Item{
		FieldId:     entry.best.Hit.FieldId,
		DisplayName: entry.best.Hit.DisplayName,
		SearchText:  entry.best.SearchText,
		Score:       entry.best.Hit.Score,
		Confidence:  bandScore(entry.best.Hit.Score),
		Explanation: buildExplanation(entry),
	}
	// Only event attributes carry a parent event linkage on the wire.
	if category == categoryEventAttribute {
		item.GroupKey = entry.best.Hit.GroupKey
	}
	return item
}

// bandScore maps a similarity score to a presentation band.
// Banding is informational only, applied after the threshold filter.
func bandScore(score float32) core.ConfidenceLevel {
	switch {
	case score >= 0.8:
		return core.ConfidenceHigh
	case score >= 0.6:
		return core.ConfidenceMedium
	default:
		return core.ConfidenceLow
	}
}

// confidenceScore is the mean of all accepted scores, rounded to two
// decimal places, damped when the intent came from the rule fallback.
func (a *Aggregator) confidenceScore(provenance Provenance, lists ...[]core.Item) float64 {
	var sum float64
	var count int
	for _, items := range lists {
		for _, item := range items {
			sum += float64(item.Score)
			count++
		}
	}
	if count == 0 {
		return 0
	}

	mean := sum / float64(count)
	if provenance == ProvenanceRules {
		mean *= ruleProvenanceDamping
	}
	return math.Round(mean*100) / 100
}

// buildExplanation renders the match provenance of one item.
func buildExplanation(entry *dedupEntry) string {
	explanation := fmt.Sprintf("Semantic match for %q", entry.best.SearchText)
	if len(entry.secondary) > 0 {
		explanation += "; also matched: " + strings.Join(entry.secondary, ", ")
	}
	return explanation
}

// buildSummary produces the deterministic human-readable summary.
func buildSummary(attrs, events, eventAttrs []core.Item) string {
	var parts []string
	if names := displayNames(attrs); names != "" {
		parts = append(parts, "Profile attributes: "+names)
	}
	if names := displayNames(events); names != "" {
		parts = append(parts, "Events: "+names)
	}
	if names := displayNames(eventAttrs); names != "" {
		parts = append(parts, "Event attributes: "+names)
	}
	if len(parts) == 0 {
		return "No catalog fields matched the query."
	}
	return strings.Join(parts, ". ") + "."
}

func displayNames(items []core.Item) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		name := item.DisplayName
		if name == "" {
			name = item.FieldId
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

// appendPhrase records a secondary matching phrase, skipping duplicates
// and the best hit's own phrase.
func appendPhrase(phrases []string, phrase, bestPhrase string) []string {
	if phrase == bestPhrase {
		return phrases
	}
	for _, existing := range phrases {
		if existing == phrase {
			return phrases
		}
	}
	return append(phrases, phrase)
}
