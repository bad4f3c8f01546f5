package badger

import (
	"fmt"

	"github.com/poiesic/metaquery/core"
)

// Key prefixes for different data types
const (
	catalogRecordPrefix = "catrec"
)

// makeTypePrefix generates the key prefix shared by all records of one
// type. Search iterators are bounded by this prefix.
func makeTypePrefix(recordType core.RecordType) []byte {
	return []byte(fmt.Sprintf("%s:%s:", catalogRecordPrefix, recordType))
}

// makeRecordKey generates a key for a catalog record by type and ID.
func makeRecordKey(recordType core.RecordType, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", catalogRecordPrefix, recordType, id))
}
