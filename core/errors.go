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

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a CatalogRecord failed validation.
	ErrInvalidRecord = errors.New("invalid catalog record")

	// ErrInvalidRecordType indicates an unknown RecordType value.
	ErrInvalidRecordType = errors.New("invalid record type")

	// ErrEmptyFieldId indicates the FieldId field is empty.
	ErrEmptyFieldId = errors.New("field id cannot be empty")

	// ErrEmptyDescription indicates the Description field is empty.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrMissingGroupKey indicates an event-attribute record without a parent event key.
	ErrMissingGroupKey = errors.New("event attribute requires a group key")
)
