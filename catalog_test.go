package metaquery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/metaquery/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCatalog(t *testing.T) {
	t.Run("open new catalog", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_catalog")
		catalog, err := OpenCatalog(tmpDir, WithAIProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NotNil(t, catalog)
		defer catalog.Close()

		// Verify components are initialized
		assert.NotNil(t, catalog.Index())
		assert.NotNil(t, catalog.provider)
		assert.NotNil(t, catalog.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to open a catalog at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		catalog, err := OpenCatalog(tmpFile, WithAIProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, catalog)
	})
}

func TestCatalog_Close(t *testing.T) {
	catalog, err := OpenCatalog(t.TempDir(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NotNil(t, catalog)

	err = catalog.Close()
	assert.NoError(t, err)
}

func TestCatalog_FactoryMethods(t *testing.T) {
	catalog, err := OpenCatalog(t.TempDir(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NotNil(t, catalog)
	defer catalog.Close()

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := catalog.NewIngestionPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create query engine", func(t *testing.T) {
		engine, err := catalog.NewQueryEngine()
		require.NoError(t, err)
		require.NotNil(t, engine)
	})
}
