package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/metaquery/core"
	"github.com/poiesic/metaquery/index"
)

// CatalogIndex implements index.Index for BadgerDB.
type CatalogIndex struct {
	backend *Backend
}

var _ index.Index = (*CatalogIndex)(nil)

// NewIndex opens a catalog index backed by BadgerDB at the given path.
//
// Returns index.Index interface to enforce abstraction.
func NewIndex(filePath string) (index.Index, error) {
	backend, err := OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}
	return &CatalogIndex{backend: backend}, nil
}

// Close closes the underlying backend.
func (c *CatalogIndex) Close() error {
	return c.backend.Close()
}

// Search delegates to the backend.
func (c *CatalogIndex) Search(ctx context.Context, vector []float32, filter index.Filter, minSimilarity float32, limit int) ([]core.Hit, error) {
	return c.backend.Search(ctx, vector, filter, minSimilarity, limit)
}

// AddRecords adds one or more catalog records.
// Identical record identities map to identical content-based IDs, so
// re-adding a record overwrites the previous version in place.
func (c *CatalogIndex) AddRecords(ctx context.Context, records ...*core.CatalogRecord) ([]*core.CatalogRecord, error) {
	for _, record := range records {
		if err := core.ValidateCatalogRecord(record); err != nil {
			return nil, err
		}
	}

	err := c.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			// Use content-based ID if not set
			if record.Id == 0 {
				record.Id = core.IDFromContent(record.Identity())
			}

			// Set timestamps
			if record.InsertedAt.IsZero() {
				record.InsertedAt = time.Now().UTC()
			}
			record.UpdatedAt = time.Now().UTC()

			key := makeRecordKey(record.Type, record.Id)
			if err := tx.Set(key, index.MarshalRecord(record)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// GetRecord retrieves a single record by type and ID.
func (c *CatalogIndex) GetRecord(ctx context.Context, recordType core.RecordType, id core.ID) (*core.CatalogRecord, error) {
	var result *core.CatalogRecord
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readRecord(tx, makeRecordKey(recordType, id))
		if err != nil {
			return err
		}
		if result == nil {
			return index.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetRecordsByType retrieves all records of one type.
func (c *CatalogIndex) GetRecordsByType(ctx context.Context, recordType core.RecordType) ([]*core.CatalogRecord, error) {
	var results []*core.CatalogRecord
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTypePrefix(recordType)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.CatalogRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = index.UnmarshalRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteRecords removes records by type and IDs.
func (c *CatalogIndex) DeleteRecords(ctx context.Context, recordType core.RecordType, ids ...core.ID) error {
	return c.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeRecordKey(recordType, id)

			record, err := readRecord(tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				return index.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// CountByType returns the number of stored records per record type.
func (c *CatalogIndex) CountByType(ctx context.Context) (map[core.RecordType]int, error) {
	counts := make(map[core.RecordType]int)
	types := []core.RecordType{
		core.RecordTypeProfileAttribute,
		core.RecordTypeEvent,
		core.RecordTypeEventAttribute,
	}

	err := c.backend.WithTx(func(tx *badger.Txn) error {
		for _, recordType := range types {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = makeTypePrefix(recordType)
			opts.PrefetchValues = false
			iter := tx.NewIterator(opts)

			count := 0
			for iter.Rewind(); iter.Valid(); iter.Next() {
				count++
			}
			iter.Close()
			counts[recordType] = count
		}
		return nil
	}, false)

	return counts, err
}

// readRecord reads a catalog record from the transaction.
func readRecord(tx *badger.Txn, key []byte) (*core.CatalogRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.CatalogRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = index.UnmarshalRecord(val)
		return err
	})
	return record, err
}
