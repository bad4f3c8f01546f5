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


package metaquery

import (
	"log/slog"

	"github.com/poiesic/metaquery/ai"
	"github.com/poiesic/metaquery/ai/openai"
	"github.com/poiesic/metaquery/index"
	"github.com/poiesic/metaquery/index/badger"
	"github.com/poiesic/metaquery/ingest"
	"github.com/poiesic/metaquery/query"
)

type Catalog struct {
	index    index.Index
	provider ai.AIProvider
	logger   *slog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogOptions)

type catalogOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
}

// WithAIConfig sets the AI service configuration used to build the
// default provider.
func WithAIConfig(config *ai.Config) CatalogOption {
	return func(o *catalogOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider supplies a pre-built AI provider instead of the
// default OpenAI-compatible one. The catalog takes ownership and
// closes it on Close.
func WithAIProvider(provider ai.AIProvider) CatalogOption {
	return func(o *catalogOptions) {
		o.provider = provider
	}
}

func OpenCatalog(filePath string, opts ...CatalogOption) (*Catalog, error) {
	// Apply options
	options := &catalogOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open index
	idx, err := badger.NewIndex(filePath)
	if err != nil {
		return nil, err
	}

	// Create AI provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			idx.Close()
			return nil, err
		}
	}

	return &Catalog{
		index:    idx,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

func (c *Catalog) Close() error {
	// Close AI provider first
	if err := c.provider.Close(); err != nil {
		c.logger.Error("error closing AI provider", "err", err)
	}

	if err := c.index.Close(); err != nil {
		c.logger.Error("error closing catalog index", "err", err)
		return err
	}
	return nil
}

func (c *Catalog) Index() index.Index {
	return c.index
}

func (c *Catalog) NewQueryEngine(opts ...query.Option) (*query.Engine, error) {
	return query.NewEngine(c.index, c.provider, opts...)
}

func (c *Catalog) NewIngestionPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(c.index, c.provider, opts...)
}
