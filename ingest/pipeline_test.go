package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/metaquery/ai/mock"
	"github.com/poiesic/metaquery/core"
	"github.com/poiesic/metaquery/index/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPipeline(t *testing.T, opts ...Option) (*Pipeline, *mock.MockProvider) {
	t.Helper()

	idx, err := badger.NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	provider := mock.NewMockProvider().(*mock.MockProvider)
	pipeline, err := NewPipeline(idx, provider, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return pipeline, provider
}

func testRecord(recordType core.RecordType, groupKey, fieldId, description string) *core.CatalogRecord {
	return &core.CatalogRecord{
		Type:        recordType,
		GroupKey:    groupKey,
		FieldId:     fieldId,
		DisplayName: fieldId,
		Description: description,
	}
}

func TestNewPipeline(t *testing.T) {
	t.Run("nil index", func(t *testing.T) {
		_, err := NewPipeline(nil, mock.NewMockProvider())
		assert.ErrorIs(t, err, ErrIndexRequired)
	})

	t.Run("nil provider", func(t *testing.T) {
		idx, err := badger.NewMemoryIndex()
		require.NoError(t, err)
		defer idx.Close()

		_, err = NewPipeline(idx, nil)
		assert.ErrorIs(t, err, ErrAIProviderRequired)
	})
}

func TestIngestRecords(t *testing.T) {
	ctx := context.Background()

	t.Run("records land with vectors and content IDs", func(t *testing.T) {
		pipeline, _ := setupPipeline(t, WithBatchSize(2))

		records := []*core.CatalogRecord{
			testRecord(core.RecordTypeProfileAttribute, "users", "age", "Customer age in years"),
			testRecord(core.RecordTypeProfileAttribute, "users", "city", "City of residence"),
			testRecord(core.RecordTypeEvent, "", "buy_online", "Customer completed an online purchase"),
		}

		written, err := pipeline.IngestRecords(ctx, records)
		require.NoError(t, err)
		assert.Equal(t, 3, written)

		counts, err := pipeline.index.CountByType(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, counts[core.RecordTypeProfileAttribute])
		assert.Equal(t, 1, counts[core.RecordTypeEvent])

		stored, err := pipeline.index.GetRecordsByType(ctx, core.RecordTypeProfileAttribute)
		require.NoError(t, err)
		for _, record := range stored {
			assert.NotZero(t, record.Id)
			assert.NotEmpty(t, record.Vector)
			assert.False(t, record.InsertedAt.IsZero())
		}
	})

	t.Run("re-ingestion is an upsert", func(t *testing.T) {
		pipeline, _ := setupPipeline(t)

		_, err := pipeline.IngestRecords(ctx, []*core.CatalogRecord{
			testRecord(core.RecordTypeProfileAttribute, "users", "age", "Customer age"),
		})
		require.NoError(t, err)

		_, err = pipeline.IngestRecords(ctx, []*core.CatalogRecord{
			testRecord(core.RecordTypeProfileAttribute, "users", "age", "Age of the customer in whole years"),
		})
		require.NoError(t, err)

		counts, err := pipeline.index.CountByType(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, counts[core.RecordTypeProfileAttribute])
	})

	t.Run("invalid record rejected before any write", func(t *testing.T) {
		pipeline, _ := setupPipeline(t)

		written, err := pipeline.IngestRecords(ctx, []*core.CatalogRecord{
			testRecord(core.RecordTypeProfileAttribute, "users", "age", "Customer age"),
			testRecord(core.RecordTypeProfileAttribute, "users", "", "No field id"),
		})
		assert.ErrorIs(t, err, core.ErrEmptyFieldId)
		assert.Zero(t, written)

		counts, err := pipeline.index.CountByType(ctx)
		require.NoError(t, err)
		assert.Zero(t, counts[core.RecordTypeProfileAttribute])
	})

	t.Run("failed batch does not stop the others", func(t *testing.T) {
		pipeline, provider := setupPipeline(t, WithBatchSize(1), WithPoolSize(1))
		provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			if texts[0] == "poison" {
				return nil, errors.New("embedding service down")
			}
			vectors := make([][]float32, len(texts))
			for i := range texts {
				vectors[i] = []float32{1, 0, 0}
			}
			return vectors, nil
		}

		written, err := pipeline.IngestRecords(ctx, []*core.CatalogRecord{
			testRecord(core.RecordTypeProfileAttribute, "users", "age", "Customer age"),
			testRecord(core.RecordTypeProfileAttribute, "users", "bad", "poison"),
			testRecord(core.RecordTypeProfileAttribute, "users", "city", "City of residence"),
		})
		assert.Error(t, err)
		assert.Equal(t, 2, written)
	})
}

func TestIngestCSV(t *testing.T) {
	ctx := context.Background()

	t.Run("valid catalog", func(t *testing.T) {
		pipeline, _ := setupPipeline(t)

		csv := strings.Join([]string{
			"type,group_key,field_id,display_name,description,data_type",
			"profile_attribute,users,age,Age,Customer age in years,integer",
			"event,,buy_online,Buy Online,Customer completed an online purchase,",
			"event_attribute,buy_online,purchase_amount,Purchase Amount,Total amount paid,decimal",
		}, "\n")

		written, err := pipeline.IngestCSV(ctx, strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, 3, written)

		stored, err := pipeline.index.GetRecordsByType(ctx, core.RecordTypeProfileAttribute)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "Age", stored[0].DisplayName)
		assert.Equal(t, "integer", stored[0].Metadata["data_type"])
	})

	t.Run("missing required column", func(t *testing.T) {
		pipeline, _ := setupPipeline(t)

		csv := "type,field_id\nprofile_attribute,age\n"
		_, err := pipeline.IngestCSV(ctx, strings.NewReader(csv))
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("display name defaults to field id", func(t *testing.T) {
		pipeline, _ := setupPipeline(t)

		csv := "type,group_key,field_id,description\nprofile_attribute,users,income,Annual income\n"
		written, err := pipeline.IngestCSV(ctx, strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, 1, written)

		stored, err := pipeline.index.GetRecordsByType(ctx, core.RecordTypeProfileAttribute)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "income", stored[0].DisplayName)
	})

	t.Run("invalid record type on a data line", func(t *testing.T) {
		pipeline, _ := setupPipeline(t)

		csv := "type,field_id,description\nwidget,age,Customer age\n"
		_, err := pipeline.IngestCSV(ctx, strings.NewReader(csv))
		assert.ErrorIs(t, err, core.ErrInvalidRecordType)
	})
}
