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


package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/metaquery/core"
)

var requiredColumns = []string{"type", "field_id", "description"}

var knownColumns = map[string]bool{
	"type":         true,
	"field_id":     true,
	"description":  true,
	"group_key":    true,
	"display_name": true,
}

// parseCSV reads catalog records from a headered CSV stream.
func parseCSV(r io.Reader) ([]*core.CatalogRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header failed: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var records []*core.CatalogRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d failed: %w", line, err)
		}

		record := &core.CatalogRecord{
			Type:        core.RecordType(strings.ToUpper(field(row, columns, "type"))),
			GroupKey:    field(row, columns, "group_key"),
			FieldId:     field(row, columns, "field_id"),
			DisplayName: field(row, columns, "display_name"),
			Description: field(row, columns, "description"),
		}
		if record.DisplayName == "" {
			record.DisplayName = record.FieldId
		}

		// Unrecognized columns carry through as metadata.
		for name, i := range columns {
			if knownColumns[name] || i >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[i])
			if value == "" {
				continue
			}
			if record.Metadata == nil {
				record.Metadata = map[string]string{}
			}
			record.Metadata[name] = value
		}

		if err := core.ValidateCatalogRecord(record); err != nil {
			return nil, fmt.Errorf("CSV line %d: %w", line, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func field(row []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
