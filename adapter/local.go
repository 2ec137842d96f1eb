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


package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/memvault"
	"github.com/poiesic/memvault/ai"
	"github.com/poiesic/memvault/core"
	"github.com/poiesic/memvault/ingestion"
	"github.com/poiesic/memvault/storage"
)

// Local stores memories in an embedded badger table.
//
// Writes (ingest, delete, clear, finalize) hold the lock exclusively and reads
// share it, so a clear never runs while a listing or search is iterating.
type Local struct {
	config   Config
	dbOpts   []memvault.DatabaseOption
	dbLogger *slog.Logger

	mu     sync.RWMutex
	db     *memvault.Database
	ids    *core.IDGenerator
	logger *slog.Logger
}

var _ Adapter = (*Local)(nil)

// NewLocal creates an uninitialized local adapter.
func NewLocal(config Config, opts ...Option) *Local {
	o := applyOptions(opts)
	if config.AI == nil {
		config.AI = ai.DefaultConfig()
	}
	return &Local{
		config:   config,
		dbOpts:   o.dbOpts,
		dbLogger: o.logger,
		ids:      core.NewIDGenerator(),
		logger:   o.logger.With("component", "adapter", "backend", config.DBType),
	}
}

func (l *Local) Initialize(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db != nil {
		return nil
	}

	opts := []memvault.DatabaseOption{
		memvault.WithAIConfig(l.config.AI),
		memvault.WithWorkers(l.config.Workers),
		memvault.WithLogger(l.dbLogger),
	}
	db, err := memvault.NewDatabase(l.config.DBPath, l.config.TableName, append(opts, l.dbOpts...)...)
	if err != nil {
		return fmt.Errorf("initialize %s storage at %s: %w", l.config.DBType, l.config.DBPath, err)
	}

	// New IDs must sort after everything already stored.
	maxID, err := db.MaxID(ctx)
	if err != nil {
		db.Close()
		return fmt.Errorf("initialize %s storage at %s: %w", l.config.DBType, l.config.DBPath, err)
	}
	l.ids.Observe(maxID)

	l.db = db
	l.logger.Info("storage initialized", "path", l.config.DBPath, "table", db.Table())
	return nil
}

func (l *Local) IsInitialized() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.db != nil
}

func (l *Local) AddDialogue(ctx context.Context, dialogue core.Dialogue) (Outcome, error) {
	out, err := l.AddDialogues(ctx, []core.Dialogue{dialogue})
	if err != nil || !out.Success {
		return out, err
	}
	out.Message = "Dialogue added successfully"
	return out, nil
}

func (l *Local) AddDialogues(ctx context.Context, dialogues []core.Dialogue) (Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return Outcome{}, ErrNotInitialized
	}
	if len(dialogues) == 0 {
		return Outcome{Success: true, Message: "Added 0 out of 0 dialogues"}, nil
	}

	ids := l.ids.Reserve(len(dialogues))
	items := make([]ingestion.Item, len(dialogues))
	for i, d := range dialogues {
		items[i] = ingestion.Item{ID: ids[i], Dialogue: d}
	}

	result, err := l.db.Ingest(ctx, items)
	if err != nil {
		return Outcome{}, err
	}

	stored := len(result.Entries)
	out := Outcome{
		Success: stored > 0,
		Message: fmt.Sprintf("Added %d out of %d dialogues", stored, len(dialogues)),
		Count:   stored,
	}
	for _, id := range result.IDs() {
		out.EntryIDs = append(out.EntryIDs, id.String())
	}

	if result.Err != nil {
		l.logger.Warn("some dialogues were not stored", "stored", stored, "submitted", len(dialogues), "err", result.Err)
	}
	if stored == 0 {
		out.Reason = ReasonBackend
		if errors.Is(result.Err, core.ErrInvalidDialogue) {
			out.Reason = ReasonInvalid
		}
		out.Message = fmt.Sprintf("Failed to add dialogue: %v", result.Err)
	}
	return out, nil
}

func (l *Local) Finalize(ctx context.Context) (Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return Outcome{}, ErrNotInitialized
	}
	if err := l.db.Flush(ctx); err != nil {
		return Outcome{}, err
	}
	return Outcome{Success: true, Message: "Memory storage finalized"}, nil
}

func (l *Local) Query(ctx context.Context, opts QueryOptions) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.db == nil {
		return "", ErrNotInitialized
	}
	return l.db.AskWithThreshold(ctx, opts.Query, opts.Limit, opts.Threshold)
}

func (l *Local) RetrieveAll(ctx context.Context, limit int) ([]core.MemoryRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.db == nil {
		return nil, ErrNotInitialized
	}
	entries, err := l.db.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	records := make([]core.MemoryRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, e.Record())
	}
	return records, nil
}

func (l *Local) Search(ctx context.Context, query string, limit int) ([]core.MemoryRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.db == nil {
		return nil, ErrNotInitialized
	}
	results, err := l.db.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	records := make([]core.MemoryRecord, 0, len(results))
	for _, r := range results {
		records = append(records, r.Entry.Record())
	}
	return records, nil
}

func (l *Local) DeleteMemory(ctx context.Context, entryID string) (Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return Outcome{}, ErrNotInitialized
	}

	notFound := Outcome{
		Message: fmt.Sprintf("Memory with entry_id '%s' not found", entryID),
		Reason:  ReasonNotFound,
	}

	// Text that is not an issued ID cannot name a stored memory.
	id, err := core.ParseID(entryID)
	if err != nil {
		return notFound, nil
	}

	if err := l.db.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound, nil
		}
		return Outcome{}, err
	}

	return Outcome{
		Success:  true,
		Message:  fmt.Sprintf("Memory with entry_id '%s' deleted successfully", entryID),
		Count:    1,
		EntryIDs: []string{entryID},
	}, nil
}

func (l *Local) GetStats(ctx context.Context) (core.Stats, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.db == nil {
		return core.Stats{}, ErrNotInitialized
	}
	count, err := l.db.Count(ctx)
	if err != nil {
		return core.Stats{}, err
	}
	return core.Stats{
		Count:     count,
		TableName: l.db.Table(),
		DBPath:    l.config.DBPath,
		DBType:    l.config.DBType,
	}, nil
}

func (l *Local) Clear(ctx context.Context) (Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return Outcome{}, ErrNotInitialized
	}
	if err := l.db.Clear(ctx); err != nil {
		return Outcome{}, err
	}
	return Outcome{Success: true, Message: "All memories cleared"}, nil
}

func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}
