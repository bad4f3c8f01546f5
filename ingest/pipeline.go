package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/metaquery/ai"
	"github.com/poiesic/metaquery/core"
	"github.com/poiesic/metaquery/index"
)

const defaultBatchSize = 32

// Pipeline loads catalog records into the semantic index. Records are
// embedded in batches on a worker pool, then written to the index.
type Pipeline struct {
	index     index.Index
	embedder  ai.Embedder
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many records share one embedding call.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new catalog ingestion pipeline.
func NewPipeline(idx index.Index, provider ai.AIProvider, opts ...Option) (*Pipeline, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		index:     idx,
		embedder:  provider.Embedder(),
		pool:      pool,
		batchSize: defaultBatchSize,
		logger:    slog.Default().With("component", "ingest"),
	}

	// Apply options
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestRecords embeds and indexes the given catalog records.
// Batches run concurrently on the worker pool; the call blocks until
// all batches finish. Returns the number of records written and any
// batch errors joined together. A failed batch does not stop the
// others.
func (p *Pipeline) IngestRecords(ctx context.Context, records []*core.CatalogRecord) (int, error) {
	for _, record := range records {
		if err := core.ValidateCatalogRecord(record); err != nil {
			return 0, err
		}
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		written  int
		failures []error
	)

	for start := 0; start < len(records); start += p.batchSize {
		end := min(start+p.batchSize, len(records))
		batch := records[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			count, err := p.ingestBatch(ctx, batch)

			mu.Lock()
			defer mu.Unlock()
			written += count
			if err != nil {
				failures = append(failures, err)
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			failures = append(failures, submitErr)
			mu.Unlock()
		}
	}
	wg.Wait()

	p.logger.Info("ingestion complete", "records", written, "failures", len(failures))
	return written, errors.Join(failures...)
}

// ingestBatch embeds one batch of records and writes them to the index.
func (p *Pipeline) ingestBatch(ctx context.Context, batch []*core.CatalogRecord) (int, error) {
	texts := make([]string, len(batch))
	for i, record := range batch {
		texts[i] = record.Description
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding batch failed: %w", err)
	}
	if len(vectors) != len(batch) {
		return 0, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(vectors))
	}

	for i := range vectors {
		batch[i].Vector = vectors[i]
	}

	added, err := p.index.AddRecords(ctx, batch...)
	if err != nil {
		return 0, fmt.Errorf("index write failed: %w", err)
	}
	return len(added), nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// IngestCSV parses catalog definitions from CSV and ingests them.
//
// Required columns: type, field_id, description. Optional columns:
// group_key, display_name. Any other column becomes record metadata.
func (p *Pipeline) IngestCSV(ctx context.Context, r io.Reader) (int, error) {
	records, err := parseCSV(r)
	if err != nil {
		return 0, err
	}
	return p.IngestRecords(ctx, records)
}
