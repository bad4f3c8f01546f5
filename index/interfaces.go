package index

import (
	"context"

	"github.com/poiesic/metaquery/core"
)

// Filter restricts a similarity search to a slice of the catalog.
// Type is required. GroupKeys, when non-empty, keeps only records whose
// GroupKey is in the set; this is how event-attribute searches are
// scoped to previously discovered events.
type Filter struct {
	Type      core.RecordType
	GroupKeys []string
}

// Matches reports whether a record passes the filter.
func (f Filter) Matches(record *core.CatalogRecord) bool {
	if record.Type != f.Type {
		return false
	}
	if len(f.GroupKeys) == 0 {
		return true
	}
	for _, key := range f.GroupKeys {
		if record.GroupKey == key {
			return true
		}
	}
	return false
}

// Searcher finds catalog records similar to a query vector.
// Implementations must be thread-safe and support concurrent access.
type Searcher interface {
	// Search finds catalog records similar to the given vector.
	// Returns hits with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	Search(ctx context.Context, vector []float32, filter Filter, minSimilarity float32, limit int) ([]core.Hit, error)
}

// Writer provides operations for maintaining the catalog.
type Writer interface {
	// AddRecords adds one or more catalog records.
	// Records are validated before writing. For records with Id=0,
	// generates content-based IDs from the record identity, so the same
	// identity always maps to the same ID and re-ingestion is an upsert.
	// Sets InsertedAt timestamp if not already set.
	// Returns the records with generated IDs and timestamps populated.
	AddRecords(ctx context.Context, records ...*core.CatalogRecord) ([]*core.CatalogRecord, error)

	// GetRecord retrieves a single record by type and ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecord(ctx context.Context, recordType core.RecordType, id core.ID) (*core.CatalogRecord, error)

	// GetRecordsByType retrieves all records of one type.
	GetRecordsByType(ctx context.Context, recordType core.RecordType) ([]*core.CatalogRecord, error)

	// DeleteRecords removes records by type and IDs.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteRecords(ctx context.Context, recordType core.RecordType, ids ...core.ID) error

	// CountByType returns the number of stored records per record type.
	CountByType(ctx context.Context) (map[core.RecordType]int, error)
}

// Index aggregates search and maintenance operations over one catalog.
type Index interface {
	Searcher
	Writer

	// Close closes the index backend and releases resources.
	Close() error
}
