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


package reembed

import (
	"context"

	"github.com/poiesic/memvault/core"
	"github.com/poiesic/memvault/storage"
)

const (
	// DefaultBatchSize is the default number of entries to fetch in each batch
	DefaultBatchSize = 100
)

// EntryIterator pages through memory entries in insertion order.
type EntryIterator struct {
	repo      storage.MemoryRepository
	batchSize int
}

// NewEntryIterator creates a new entry iterator.
// batchSize: number of entries to fetch in each batch; <= 0 uses DefaultBatchSize
func NewEntryIterator(repo storage.MemoryRepository, batchSize int) *EntryIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &EntryIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of entries inserted after afterSeq.
// Iteration stops on the first error from fn or when all entries are seen.
// Context cancellation is checked between batches.
func (it *EntryIterator) ForEach(ctx context.Context, afterSeq uint64, fn func([]*core.MemoryEntry) error) error {
	cursor := afterSeq
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := it.repo.ListEntries(ctx, cursor, it.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		if err := fn(batch); err != nil {
			return err
		}

		cursor = batch[len(batch)-1].Sequence
		if len(batch) < it.batchSize {
			return nil
		}
	}
}
