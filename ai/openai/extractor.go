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


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/metaquery/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// IntentExtractor implements ai.IntentExtractor using OpenAI-compatible chat APIs.
type IntentExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// decomposition is the wrapper structure for the LLM's JSON response.
// Models vary in how strictly they follow the schema, so the attribute
// containers are kept raw and decoded leniently afterwards.
type decomposition struct {
	PersonAttributes json.RawMessage `json:"person_attributes"`
	BehavioralEvents []rawEvent      `json:"behavioral_events"`
}

type rawEvent struct {
	EventType        string          `json:"event_type"`
	EventDescription string          `json:"event_description"`
	Attributes       json.RawMessage `json:"attributes"`
}

// newIntentExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newIntentExtractor(config *ai.Config) (*IntentExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/extraction
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken("none"),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &IntentExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewIntentExtractor creates a new intent extractor using the provided configuration.
//
// Returns ai.IntentExtractor interface to enforce abstraction.
func NewIntentExtractor(config *ai.Config) (ai.IntentExtractor, error) {
	return newIntentExtractor(config)
}

// ExtractIntent decomposes a natural-language query into structured search
// intent using an LLM. The model is run in JSON mode at zero temperature;
// malformed responses are repaired and re-requested up to 3 times.
func (e *IntentExtractor) ExtractIntent(ctx context.Context, query string) (*ai.Intent, error) {
	query = normalizeQuery(query)

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(extractionSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(query),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result decomposition
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return &ai.Intent{}, nil
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse extractor response after retries", "err", lastErr)
		return nil, lastErr
	}

	intent := buildIntent(&result)
	e.logger.Debug("extracted intent",
		"attributes", len(intent.ProfileAttributes),
		"events", len(intent.Events))
	return intent, nil
}

// buildIntent converts the lenient wire structure into an ai.Intent.
func buildIntent(d *decomposition) *ai.Intent {
	intent := &ai.Intent{}

	for _, name := range decodeNamed(d.PersonAttributes, ": ") {
		intent.ProfileAttributes = append(intent.ProfileAttributes, ai.AttributeQuery{
			Name:       name.name,
			SearchText: name.text,
		})
	}

	for _, event := range d.BehavioralEvents {
		searchText := event.EventType
		if searchText == "" {
			searchText = event.EventDescription
		}
		if searchText == "" {
			continue
		}

		var attrTexts []string
		for _, attr := range decodeNamed(event.Attributes, ": ") {
			attrTexts = append(attrTexts, attr.text)
		}

		intent.Events = append(intent.Events, ai.EventQuery{
			SearchText:     searchText,
			AttributeTexts: attrTexts,
		})
	}

	return intent
}

type namedText struct {
	name string
	text string
}

// decodeNamed accepts either an object form {"age": "over 30"} or a bare
// list form ["age", "gender"]. The object form joins key and value with
// sep so the search phrase carries both the attribute and its constraint.
// Object keys are sorted for deterministic output.
func decodeNamed(raw json.RawMessage, sep string) []namedText {
	if len(raw) == 0 {
		return nil
	}

	var asMap map[string]string
	if err := json.Unmarshal(raw, &asMap); err == nil {
		keys := make([]string, 0, len(asMap))
		for k := range asMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := make([]namedText, 0, len(keys))
		for _, k := range keys {
			text := k
			if asMap[k] != "" {
				text = k + sep + asMap[k]
			}
			out = append(out, namedText{name: k, text: text})
		}
		return out
	}

	var asList []string
	if err := json.Unmarshal(raw, &asList); err == nil {
		out := make([]namedText, 0, len(asList))
		for _, name := range asList {
			if name == "" {
				continue
			}
			out = append(out, namedText{name: name, text: name})
		}
		return out
	}

	return nil
}
