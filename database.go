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


package memvault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/memvault/ai"
	"github.com/poiesic/memvault/ai/mock"
	"github.com/poiesic/memvault/ai/openai"
	"github.com/poiesic/memvault/core"
	"github.com/poiesic/memvault/ingestion"
	"github.com/poiesic/memvault/reembed"
	"github.com/poiesic/memvault/search"
	"github.com/poiesic/memvault/storage"
	"github.com/poiesic/memvault/storage/badger"
)

// DefaultTable is the table used when none is given.
const DefaultTable = "memories"

// Database is the memory engine: one badger table of memory entries plus the
// AI services that fill and query it.
type Database struct {
	path           string
	table          string
	backend        *badger.Backend
	memoryRepo     storage.MemoryRepository
	checkpointRepo storage.CheckpointRepository
	provider       ai.AIProvider
	pipeline       *ingestion.Pipeline
	searcher       *search.Searcher
	logger         *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig      *ai.Config
	provider      ai.AIProvider
	inMemory      bool
	workers       int
	minSimilarity float32
	logger        *slog.Logger
}

// WithAIConfig selects and configures the AI provider.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithProvider uses an already built provider. It takes precedence over
// WithAIConfig, and the Database closes it on Close.
func WithProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps all data in memory; the path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithWorkers sets the number of dialogues prepared concurrently.
func WithWorkers(n int) DatabaseOption {
	return func(o *databaseOptions) {
		o.workers = n
	}
}

// WithMinSimilarity sets the semantic search threshold.
func WithMinSimilarity(threshold float32) DatabaseOption {
	return func(o *databaseOptions) {
		o.minSimilarity = threshold
	}
}

// WithLogger sets the logger shared by the engine components.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// NewProvider builds the provider named by config.Provider.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Provider == ai.ProviderMock {
		return mock.NewMockProviderFromConfig(config), nil
	}
	return openai.NewProvider(config)
}

// NewDatabase opens (or creates) the table at path.
func NewDatabase(path, table string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if table == "" {
		table = DefaultTable
	}
	logger := options.logger.With("component", "database", "table", table)

	backend, err := badger.OpenBackend(path, options.inMemory)
	if err != nil {
		return nil, err
	}

	db := &Database{
		path:    path,
		table:   table,
		backend: backend,
		logger:  logger,
	}
	if err := db.wire(options); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("database opened", "path", path, "inMemory", options.inMemory)
	return db, nil
}

func (db *Database) wire(options *databaseOptions) error {
	memoryRepo, err := badger.NewMemoryRepository(db.backend, db.table)
	if err != nil {
		return err
	}
	db.memoryRepo = memoryRepo

	checkpointRepo, err := badger.NewCheckpointRepository(db.backend, db.table)
	if err != nil {
		return err
	}
	db.checkpointRepo = checkpointRepo

	db.provider = options.provider
	if db.provider == nil {
		if db.provider, err = NewProvider(options.aiConfig); err != nil {
			return err
		}
	}

	pipelineOpts := []ingestion.Option{ingestion.WithLogger(options.logger)}
	if options.workers > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(options.workers))
	}
	if db.pipeline, err = ingestion.NewPipeline(db.memoryRepo, db.provider, pipelineOpts...); err != nil {
		return err
	}

	searchOpts := []search.Option{search.WithLogger(options.logger)}
	if options.minSimilarity > 0 {
		searchOpts = append(searchOpts, search.WithMinSimilarity(options.minSimilarity))
	}
	db.searcher, err = search.NewSearcher(db.memoryRepo, db.provider, searchOpts...)
	return err
}

// Close releases every component. It is safe to call on a partly built Database.
func (db *Database) Close() error {
	var errs []error

	if db.pipeline != nil {
		db.pipeline.Release()
	}
	if db.provider != nil {
		if err := db.provider.Close(); err != nil {
			db.logger.Error("error closing AI provider", "err", err)
		}
	}
	if db.memoryRepo != nil {
		if err := db.memoryRepo.Close(); err != nil {
			db.logger.Error("error closing memory repository", "err", err)
			errs = append(errs, err)
		}
	}
	if db.backend != nil {
		if err := db.backend.Close(); err != nil {
			db.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Path returns the storage location the database was opened with.
func (db *Database) Path() string {
	return db.path
}

// Table returns the table name.
func (db *Database) Table() string {
	return db.table
}

func (db *Database) MemoryRepository() storage.MemoryRepository {
	return db.memoryRepo
}

func (db *Database) CheckpointRepository() storage.CheckpointRepository {
	return db.checkpointRepo
}

func (db *Database) Provider() ai.AIProvider {
	return db.provider
}

// Ingest stores dialogues under the given IDs. See ingestion.Pipeline.Ingest.
func (db *Database) Ingest(ctx context.Context, items []ingestion.Item) (*ingestion.Result, error) {
	return db.pipeline.Ingest(ctx, items)
}

// Ask answers a question from at most maxHits stored memories.
// A maxHits <= 0 uses search.DefaultMaxHits.
func (db *Database) Ask(ctx context.Context, question string, maxHits int) (string, error) {
	return db.searcher.Ask(ctx, question, maxHits)
}

// AskWithThreshold is Ask with a per-call minimum similarity.
func (db *Database) AskWithThreshold(ctx context.Context, question string, maxHits int, threshold float32) (string, error) {
	return db.searcher.AskWithThreshold(ctx, question, maxHits, threshold)
}

// Search ranks stored memories against query. A limit <= 0 returns every hit.
func (db *Database) Search(ctx context.Context, query string, limit int) ([]*core.SearchResult, error) {
	return db.searcher.FindSimilar(ctx, query, limit)
}

// SearchWithMonitor is Search with a monitor observing each stage.
func (db *Database) SearchWithMonitor(ctx context.Context, query string, limit int, monitor search.SearchMonitor) ([]*core.SearchResult, error) {
	return db.searcher.FindSimilarWithMonitor(ctx, query, limit, monitor)
}

// List returns entries in insertion order. A limit <= 0 returns all of them.
func (db *Database) List(ctx context.Context, limit int) ([]*core.MemoryEntry, error) {
	return db.memoryRepo.ListEntries(ctx, 0, limit)
}

// Delete removes one entry. Returns storage.ErrNotFound if it does not exist.
func (db *Database) Delete(ctx context.Context, id core.ID) error {
	return db.memoryRepo.DeleteEntries(ctx, id)
}

// Count enumerates the table.
func (db *Database) Count(ctx context.Context) (int, error) {
	return db.memoryRepo.Count(ctx)
}

// MaxID returns the largest stored ID, or 0 for an empty table.
func (db *Database) MaxID(ctx context.Context) (core.ID, error) {
	return db.memoryRepo.MaxID(ctx)
}

// Clear removes every entry of the table.
func (db *Database) Clear(ctx context.Context) error {
	if err := db.memoryRepo.Clear(ctx); err != nil {
		return fmt.Errorf("clear table %s: %w", db.table, err)
	}
	db.logger.Info("table cleared")
	return nil
}

// Flush makes pending writes durable.
func (db *Database) Flush(ctx context.Context) error {
	return db.memoryRepo.Sync(ctx)
}

// NewReembedder creates a reembedder for this table using the database's embedder.
func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(db.memoryRepo, db.checkpointRepo, db.provider.Embedder(), config, progress)
}
