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


package core

import "fmt"

// ValidateRecordType validates that a RecordType has a known value.
func ValidateRecordType(t RecordType) error {
	switch t {
	case RecordTypeProfileAttribute, RecordTypeEvent, RecordTypeEventAttribute:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRecordType, string(t))
	}
}

// ValidateCatalogRecord validates a CatalogRecord according to domain rules.
//
// Validation rules:
//   - Type must be a known RecordType
//   - FieldId must not be empty
//   - Description must not be empty
//   - Event attributes must carry a GroupKey naming their parent event
//
// NOT validated (populated at ingest time):
//   - Vector (can be empty until the embedding step runs)
//   - Id (0 is valid before content hashing)
func ValidateCatalogRecord(record *CatalogRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if err := ValidateRecordType(record.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	if record.FieldId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyFieldId)
	}

	if record.Description == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyDescription)
	}

	if record.Type == RecordTypeEventAttribute && record.GroupKey == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrMissingGroupKey)
	}

	return nil
}
