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


// Package query implements the orchestration engine that answers
// natural-language questions against the semantic catalog.
//
// One query runs through a fixed state machine:
//
//	START → EXTRACTING → ROUTING → EXECUTING → AGGREGATING → DONE
//
// Extraction turns raw text into a structured intent, preferring the
// LLM path and degrading to a rule-based fallback on any failure.
// Routing maps the intent to one of three plans: attribute-only,
// event-only, or mixed. Execution runs the selected retrieval stages,
// with the event-attribute stage always scoped to the event identifiers
// the event stage discovered. Aggregation merges the stage results into
// a single deduplicated, threshold-filtered, ambiguity-aware answer.
//
// The engine degrades instead of failing: extraction and stage errors
// are absorbed into reduced result completeness, and a well-formed
// answer is returned for every valid query. Only configuration faults
// are fatal, and those surface at construction time.
//
// # Usage
//
//	engine, err := query.NewEngine(idx, provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	answer, err := engine.ProcessQuery(ctx, "users over 30 who bought online")
package query
