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


// Package index provides the catalog index abstraction layer for metaquery.
//
// This package defines the interfaces that decouple the semantic catalog
// from its storage implementation. It allows different index backends
// (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple backend
// implementations:
//
//	idx, err := badger.NewIndex(path)  // returns index.Index interface
//
// # Architecture
//
// The catalog stores three kinds of records, keyed by record type so a
// similarity search only ever scans one slice of the catalog:
//
//   - PROFILE_ATTRIBUTE: person-level attribute fields
//   - EVENT: named behavioral events
//   - EVENT_ATTRIBUTE: attribute fields scoped to one event via GroupKey
//
// Search is an exhaustive scan over one record type with cosine scoring
// against stored embedding vectors, filtered by an optional GroupKey set.
//
// # Usage
//
// Create an index instance:
//
//	idx, err := badger.NewIndex("/path/to/db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer idx.Close()
//
// Use in tests with in-memory storage:
//
//	idx, err := badger.NewMemoryIndex()
//
// # Thread Safety
//
// All index implementations must be thread-safe and support concurrent
// access from multiple goroutines.
package index
