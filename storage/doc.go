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


// Package storage provides the storage abstraction layer for memvault.
//
// This package defines repository interfaces that decouple the storage
// engine from ingestion and search. The only production implementation is
// the BadgerDB one in storage/badger.
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages return these interfaces:
//
//	repo, err := badger.NewMemoryRepository(backend, "memories")  // storage.MemoryRepository
//
// Internal constructors may return concrete types since they are only used
// within the implementation package.
//
// # Tables
//
// A MemoryRepository is bound to one logical table. Several tables can share
// one backend; their keys never overlap and clearing one table leaves the
// others untouched.
//
// # Ordering
//
// ListEntries walks an insertion-order index, so listing is stable across
// restarts and independent of entry IDs or dialogue timestamps.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
