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


package index

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/metaquery/core"
)

// Field serializers shared by the record serializer.
// Vectors use raw float32 encoding since embedding components gain
// nothing from varint compression. Timestamps are stored as UnixMicro.
var (
	vectorSer   = ord.NewSliceSer[float32](raw.Float32)
	metadataSer = ord.NewMapSer[string, string](ord.String, ord.String)
)

// idSer serializes core.ID as a varint.
type idSer struct{}

// IDMUS is the MUS serializer for core.ID.
var IDMUS = idSer{}

func (idSer) Marshal(id core.ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (core.ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(v), n, err
}

func (idSer) Size(id core.ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idSer) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

// recordSer serializes core.CatalogRecord field by field, in struct
// declaration order. The format has no version tag; a format change
// requires a re-ingest of the catalog.
type recordSer struct{}

// CatalogRecordMUS is the MUS serializer for core.CatalogRecord.
var CatalogRecordMUS = recordSer{}

func (recordSer) Marshal(r core.CatalogRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(r.Id, bs)
	n += ord.String.Marshal(string(r.Type), bs[n:])
	n += ord.String.Marshal(r.GroupKey, bs[n:])
	n += ord.String.Marshal(r.FieldId, bs[n:])
	n += ord.String.Marshal(r.DisplayName, bs[n:])
	n += ord.String.Marshal(r.Description, bs[n:])
	n += metadataSer.Marshal(r.Metadata, bs[n:])
	n += vectorSer.Marshal(r.Vector, bs[n:])
	n += varint.Int64.Marshal(r.InsertedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(r.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (recordSer) Unmarshal(bs []byte) (r core.CatalogRecord, n int, err error) {
	var n1 int

	r.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}

	var recordType string
	recordType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Type = core.RecordType(recordType)

	r.GroupKey, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.FieldId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.DisplayName, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Metadata, n1, err = metadataSer.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Vector, n1, err = vectorSer.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.InsertedAt = time.UnixMicro(micros).UTC()

	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (recordSer) Size(r core.CatalogRecord) (size int) {
	size = IDMUS.Size(r.Id)
	size += ord.String.Size(string(r.Type))
	size += ord.String.Size(r.GroupKey)
	size += ord.String.Size(r.FieldId)
	size += ord.String.Size(r.DisplayName)
	size += ord.String.Size(r.Description)
	size += metadataSer.Size(r.Metadata)
	size += vectorSer.Size(r.Vector)
	size += varint.Int64.Size(r.InsertedAt.UnixMicro())
	size += varint.Int64.Size(r.UpdatedAt.UnixMicro())
	return size
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := IDMUS.Unmarshal(data)
	return id, err
}

// MarshalRecord serializes a CatalogRecord to bytes.
func MarshalRecord(record *core.CatalogRecord) []byte {
	buf := make([]byte, CatalogRecordMUS.Size(*record))
	CatalogRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalRecord deserializes a CatalogRecord from bytes.
func UnmarshalRecord(data []byte) (*core.CatalogRecord, error) {
	record, _, err := CatalogRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
