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
	"errors"
	"time"
)

// Config holds tuning parameters for query orchestration.
// All thresholds operate on cosine similarity scores in [0, 1].
type Config struct {
	// SimilarityThreshold is the minimum score an item needs to be
	// accepted into the final answer. Applied once, centrally, during
	// aggregation. Default: 0.65
	SimilarityThreshold float32

	// AmbiguityThreshold marks near-tied candidates: when two or more
	// accepted items for the same search phrase score at or above it,
	// they form an ambiguity group. Default: 0.75
	AmbiguityThreshold float32

	// AttributeLimit caps hits per attribute search vector. Default: 5
	AttributeLimit int

	// EventLimit caps hits per event search vector. Default: 5
	EventLimit int

	// EventAttributeLimit caps hits per event-attribute search vector.
	// Default: 10
	EventAttributeLimit int

	// ExtractTimeout bounds the LLM intent extraction call. On expiry
	// the rule-based fallback takes over. Default: 10s
	ExtractTimeout time.Duration

	// StageTimeout bounds one retrieval stage (embedding plus search).
	// An expired stage contributes an empty result. Default: 15s
	StageTimeout time.Duration

	// QueryTimeout bounds the whole orchestration run. Default: 30s
	QueryTimeout time.Duration
}

// DefaultConfig returns a Config with the design default values.
func DefaultConfig() *Config {
	return &Config{
		SimilarityThreshold: 0.65,
		AmbiguityThreshold:  0.75,
		AttributeLimit:      5,
		EventLimit:          5,
		EventAttributeLimit: 10,
		ExtractTimeout:      10 * time.Second,
		StageTimeout:        15 * time.Second,
		QueryTimeout:        30 * time.Second,
	}
}

// Validate checks that the configuration is valid and complete.
// Configuration faults are the only fatal error class; they surface
// at construction time, never per query.
func (c *Config) Validate() error {
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return errors.New("query config: SimilarityThreshold must be between 0 and 1")
	}
	if c.AmbiguityThreshold < 0 || c.AmbiguityThreshold > 1 {
		return errors.New("query config: AmbiguityThreshold must be between 0 and 1")
	}
	if c.AttributeLimit < 1 {
		return errors.New("query config: AttributeLimit must be positive")
	}
	if c.EventLimit < 1 {
		return errors.New("query config: EventLimit must be positive")
	}
	if c.EventAttributeLimit < 1 {
		return errors.New("query config: EventAttributeLimit must be positive")
	}
	if c.ExtractTimeout <= 0 {
		return errors.New("query config: ExtractTimeout must be positive")
	}
	if c.StageTimeout <= 0 {
		return errors.New("query config: StageTimeout must be positive")
	}
	if c.QueryTimeout <= 0 {
		return errors.New("query config: QueryTimeout must be positive")
	}
	return nil
}
