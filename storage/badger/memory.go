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


package badger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/memvault/core"
	"github.com/poiesic/memvault/storage"
)

// MemoryRepository implements storage.MemoryRepository for one table.
type MemoryRepository struct {
	backend *Backend
	table   string
	keys    tableKeys
	seq     *badger.Sequence
}

var _ storage.MemoryRepository = (*MemoryRepository)(nil)

// NewMemoryRepository creates a repository for the named table.
func NewMemoryRepository(backend *Backend, table string) (storage.MemoryRepository, error) {
	repo, err := newMemoryRepository(backend, table)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func newMemoryRepository(backend *Backend, table string) (*MemoryRepository, error) {
	keys, err := newTableKeys(table)
	if err != nil {
		return nil, err
	}
	seq, err := backend.GetSequence(keys.sequence())
	if err != nil {
		return nil, err
	}
	return &MemoryRepository{
		backend: backend,
		table:   table,
		keys:    keys,
		seq:     seq,
	}, nil
}

// Close releases the insertion sequence.
func (r *MemoryRepository) Close() error {
	return r.seq.Release()
}

// nextSequence returns the next insertion sequence number.
func (r *MemoryRepository) nextSequence() (uint64, error) {
	next, err := r.seq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if next == 0 {
		return r.seq.Next()
	}
	return next, nil
}

// AddEntries adds one or more entries to the table.
func (r *MemoryRepository) AddEntries(ctx context.Context, entries ...*core.MemoryEntry) ([]*core.MemoryEntry, error) {
	for _, entry := range entries {
		if err := core.ValidateMemoryEntry(entry); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, entry := range entries {
			seq, err := r.nextSequence()
			if err != nil {
				return err
			}
			entry.Sequence = seq
			if entry.Id == 0 {
				entry.Id = core.ID(seq)
			}

			key := r.keys.record(entry.Id)
			if _, err := tx.Get(key); err == nil {
				return fmt.Errorf("%w: entry %s", storage.ErrDuplicateKey, entry.Id)
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			entry.InsertedAt = now
			entry.UpdatedAt = now
			if entry.Timestamp.IsZero() {
				entry.Timestamp = now
			}

			if err := r.writeEntry(tx, entry); err != nil {
				return err
			}
			if err := tx.Set(r.keys.order(seq), storage.MarshalID(entry.Id)); err != nil {
				return err
			}
			if err := r.updateKeywordIndex(tx, entry); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// UpdateEntries replaces existing entries.
// The insertion sequence and InsertedAt of the stored entry are preserved.
func (r *MemoryRepository) UpdateEntries(ctx context.Context, entries ...*core.MemoryEntry) ([]*core.MemoryEntry, error) {
	for _, entry := range entries {
		if err := core.ValidateMemoryEntry(entry); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			old, err := r.readEntry(tx, entry.Id)
			if err != nil {
				return err
			}
			if old == nil {
				return fmt.Errorf("%w: entry %s", storage.ErrNotFound, entry.Id)
			}

			entry.Sequence = old.Sequence
			entry.InsertedAt = old.InsertedAt
			entry.UpdatedAt = time.Now().UTC()

			if err := r.writeEntry(tx, entry); err != nil {
				return err
			}

			// Rebuild keyword index only if the terms changed
			if !slices.Equal(entryTerms(old), entryTerms(entry)) {
				if err := r.deleteKeywordIndex(tx, old); err != nil {
					return err
				}
				if err := r.updateKeywordIndex(tx, entry); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// DeleteEntries removes entries by their IDs.
func (r *MemoryRepository) DeleteEntries(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			entry, err := r.readEntry(tx, id)
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("%w: entry %s", storage.ErrNotFound, id)
			}

			if err := r.deleteKeywordIndex(tx, entry); err != nil {
				return err
			}
			if err := tx.Delete(r.keys.order(entry.Sequence)); err != nil {
				return err
			}
			if err := tx.Delete(r.keys.record(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetEntry retrieves a single entry by ID.
func (r *MemoryRepository) GetEntry(ctx context.Context, id core.ID) (*core.MemoryEntry, error) {
	var result *core.MemoryEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readEntry(tx, id)
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("%w: entry %s", storage.ErrNotFound, id)
		}
		return nil
	}, false)
	return result, err
}

// GetEntries retrieves multiple entries by their IDs.
func (r *MemoryRepository) GetEntries(ctx context.Context, ids ...core.ID) ([]*core.MemoryEntry, error) {
	var result []*core.MemoryEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			entry, err := r.readEntry(tx, id)
			if err != nil {
				return err
			}
			if entry != nil {
				result = append(result, entry)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListEntries walks the insertion-order index.
func (r *MemoryRepository) ListEntries(ctx context.Context, afterSeq uint64, limit int) ([]*core.MemoryEntry, error) {
	var results []*core.MemoryEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := r.keys.prefix(orderKind)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(r.keys.order(afterSeq + 1)); iter.ValidForPrefix(prefix); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			var id core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			entry, err := r.readEntry(tx, id)
			if err != nil {
				return err
			}
			if entry != nil {
				results = append(results, entry)
			}
		}
		return nil
	}, false)

	return results, err
}

// FindByKeywords looks up the keyword index.
func (r *MemoryRepository) FindByKeywords(ctx context.Context, words ...string) (map[core.ID]int, error) {
	hits := make(map[core.ID]int)
	terms := storage.Terms(words...)
	if len(terms) == 0 {
		return hits, nil
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, term := range terms {
			prefix := r.keys.keywordScan(term)
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			opts.PrefetchValues = false
			iter := tx.NewIterator(opts)
			for iter.Rewind(); iter.Valid(); iter.Next() {
				id, err := idFromKeyTail(iter.Item().Key())
				if err != nil {
					iter.Close()
					return err
				}
				hits[id]++
			}
			iter.Close()
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return hits, nil
}

// Count enumerates the record keys of the table.
func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = r.keys.prefix(recordKind)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// MaxID returns the largest stored entry ID.
func (r *MemoryRepository) MaxID(ctx context.Context) (core.ID, error) {
	var maxID core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := r.keys.prefix(recordKind)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the largest possible record key so the first hit is the maximum
		iter.Seek(withUint64(prefix, ^uint64(0)))
		if !iter.ValidForPrefix(prefix) {
			return nil
		}
		var err error
		maxID, err = idFromKeyTail(iter.Item().Key())
		return err
	}, false)
	return maxID, err
}

// FindSimilar scans every embedded entry of the table.
func (r *MemoryRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	var results []*core.SearchResult

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = r.keys.prefix(recordKind)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *core.MemoryEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalMemoryEntry(val)
				return err
			})
			if err != nil {
				return err
			}

			// Skip entries without embeddings
			if len(entry.Vector) == 0 {
				continue
			}

			similarity := dotProduct(vector, entry.Vector)
			if similarity >= minSimilarity {
				results = append(results, &core.SearchResult{
					Entry: entry,
					Score: similarity,
				})
			}
		}

		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending, insertion order breaks ties
	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return compareUint64(a.Entry.Sequence, b.Entry.Sequence)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// Clear removes every entry, index key and checkpoint of the table.
func (r *MemoryRepository) Clear(ctx context.Context) error {
	_, err := r.backend.DeletePrefixes(ctx, r.keys.clearable()...)
	return err
}

// Sync flushes pending writes to disk.
func (r *MemoryRepository) Sync(ctx context.Context) error {
	return r.backend.Sync(ctx)
}

// Helper methods

// readEntry reads an entry from the transaction. Returns nil, nil when absent.
func (r *MemoryRepository) readEntry(tx *badger.Txn, id core.ID) (*core.MemoryEntry, error) {
	item, err := tx.Get(r.keys.record(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.MemoryEntry
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		entry, unmarshalErr = storage.UnmarshalMemoryEntry(val)
		return unmarshalErr
	})
	return entry, err
}

// writeEntry serializes and stores the primary record.
func (r *MemoryRepository) writeEntry(tx *badger.Txn, entry *core.MemoryEntry) error {
	value, err := storage.MarshalMemoryEntry(entry)
	if err != nil {
		return err
	}
	return tx.Set(r.keys.record(entry.Id), value)
}

// updateKeywordIndex adds keyword index entries for an entry.
func (r *MemoryRepository) updateKeywordIndex(tx *badger.Txn, entry *core.MemoryEntry) error {
	for _, term := range entryTerms(entry) {
		if err := tx.Set(r.keys.keyword(term, entry.Id), nil); err != nil {
			return err
		}
	}
	return nil
}

// deleteKeywordIndex removes keyword index entries for an entry.
func (r *MemoryRepository) deleteKeywordIndex(tx *badger.Txn, entry *core.MemoryEntry) error {
	for _, term := range entryTerms(entry) {
		if err := tx.Delete(r.keys.keyword(term, entry.Id)); err != nil {
			return err
		}
	}
	return nil
}

func entryTerms(entry *core.MemoryEntry) []string {
	return storage.EntryTerms(entry.Keywords, entry.Persons, entry.Entities, entry.Location, entry.Topic)
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
