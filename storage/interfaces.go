package storage

import (
	"context"

	"github.com/poiesic/memvault/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds memory entries similar to the given vector.
	// Returns entries with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// Close releases resources held by the repository.
	// It does not close the underlying backend.
	Close() error
}

// MemoryRepository provides operations for managing memory entries of one table.
type MemoryRepository interface {
	Repository

	// AddEntries adds one or more entries in a single transaction.
	// Entries with ID=0 get an ID from the repository sequence.
	// Every entry gets a fresh insertion sequence and InsertedAt timestamp.
	// Returns ErrDuplicateKey if an entry with the same ID already exists.
	AddEntries(ctx context.Context, entries ...*core.MemoryEntry) ([]*core.MemoryEntry, error)

	// UpdateEntries replaces existing entries and refreshes the keyword index.
	// Returns ErrNotFound if any entry doesn't exist.
	UpdateEntries(ctx context.Context, entries ...*core.MemoryEntry) ([]*core.MemoryEntry, error)

	// DeleteEntries removes entries by ID together with their index keys.
	// Returns ErrNotFound if any entry doesn't exist; nothing is deleted in that case.
	DeleteEntries(ctx context.Context, ids ...core.ID) error

	// GetEntry retrieves a single entry by ID.
	// Returns ErrNotFound if the entry doesn't exist.
	GetEntry(ctx context.Context, id core.ID) (*core.MemoryEntry, error)

	// GetEntries retrieves multiple entries by ID, skipping missing ones.
	GetEntries(ctx context.Context, ids ...core.ID) ([]*core.MemoryEntry, error)

	// ListEntries returns entries in insertion order, starting after the
	// given sequence number. A limit <= 0 returns everything.
	ListEntries(ctx context.Context, afterSeq uint64, limit int) ([]*core.MemoryEntry, error)

	// FindByKeywords returns IDs of entries indexed under any of the words,
	// with the number of distinct words each entry matched.
	FindByKeywords(ctx context.Context, words ...string) (map[core.ID]int, error)

	// Count enumerates the table and returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// MaxID returns the largest stored entry ID, or 0 for an empty table.
	MaxID(ctx context.Context) (core.ID, error)

	// Clear removes every entry and index key of the table.
	Clear(ctx context.Context) error

	// Sync flushes pending writes to durable storage.
	Sync(ctx context.Context) error
}

// CheckpointRepository persists processor progress so interrupted runs can resume.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint for its processor type.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint returns the checkpoint for a processor type.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, processorType string) (*core.Checkpoint, error)

	// DeleteCheckpoint removes the checkpoint for a processor type, if any.
	DeleteCheckpoint(ctx context.Context, processorType string) error
}
