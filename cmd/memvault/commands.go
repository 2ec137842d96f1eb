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


package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poiesic/memvault"
	"github.com/poiesic/memvault/adapter"
	"github.com/poiesic/memvault/config"
	"github.com/poiesic/memvault/core"
	"github.com/poiesic/memvault/reembed"
	"github.com/poiesic/memvault/search"
	"github.com/poiesic/memvault/service"
	"github.com/urfave/cli/v2"
)

// openAdapter builds and initializes the configured adapter.
func openAdapter(ctx context.Context, cfg *config.Config) (adapter.Adapter, error) {
	store, err := adapter.New(cfg.Adapter())
	if err != nil {
		return nil, err
	}
	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// openDatabase opens the local store directly, for commands that need more
// than the adapter contract.
func openDatabase(cfg *config.Config) (*memvault.Database, error) {
	switch strings.ToLower(cfg.DBType) {
	case adapter.TypeBadger, adapter.TypeLanceDB:
	default:
		return nil, fmt.Errorf("%w: %q has no local store", adapter.ErrUnsupportedBackend, cfg.DBType)
	}
	return memvault.NewDatabase(cfg.DBPath, cfg.TableName,
		memvault.WithAIConfig(cfg.AI()),
		memvault.WithWorkers(cfg.Workers),
	)
}

func statsCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	store, err := openAdapter(c.Context, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	stats, err := store.GetStats(c.Context)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(service.StatsResponse(stats))
}

func seedCommand(c *cli.Context) error {
	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	dialogues := sampleConversation
	if path := c.String("file"); path != "" {
		var err error
		dialogues, err = readDialogues(path)
		if err != nil {
			return err
		}
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	store, err := openAdapter(c.Context, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	stored, err := seedBatched(c.Context, store, dialogues, batchSize)
	if err != nil {
		return err
	}
	if _, err := store.Finalize(c.Context); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Seeded %d out of %d dialogues\n", stored, len(dialogues))
	return nil
}

// seedBatched submits dialogues in batches and returns how many were stored.
func seedBatched(ctx context.Context, store adapter.Adapter, dialogues []core.Dialogue, batchSize int) (int, error) {
	stored := 0
	for start := 0; start < len(dialogues); start += batchSize {
		end := min(start+batchSize, len(dialogues))
		out, err := store.AddDialogues(ctx, dialogues[start:end])
		if err != nil {
			return stored, err
		}
		if !out.Success {
			slog.Warn("batch not stored", "first", start, "message", out.Message)
		}
		stored += out.Count
	}
	return stored, nil
}

// readDialogues accepts either a bare JSON array or a batch document.
func readDialogues(path string) ([]core.Dialogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var list []core.Dialogue
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var batch service.DialogueBatchInput
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if batch.Dialogues == nil {
		return nil, fmt.Errorf("parse %s: no dialogues found", path)
	}
	return batch.Dialogues, nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return errors.New("a query is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var monitor search.SearchMonitor
	if c.Bool("trace") {
		monitor = search.NewLogMonitor(slog.Default())
	}
	results, err := db.SearchWithMonitor(c.Context, query, c.Int("limit"), monitor)
	if err != nil {
		return err
	}
	printResults(c.App.Writer, results)
	return nil
}

func printResults(w io.Writer, results []*core.SearchResult) {
	fmt.Fprintf(w, "Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Fprintf(w, "%d: '%s' (%s)[%0.3f]\n", i, hit.Entry.Restatement, hit.Entry.Id, hit.Score)
	}
}

func reembedCommand(c *cli.Context) error {
	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		Workers:        c.Int("workers"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Resume:         !c.Bool("restart"),
	}

	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	reembedder, err := db.NewReembedder(reembedConfig, c.App.ErrWriter)
	if err != nil {
		return err
	}

	aiConfig := cfg.AI()
	fmt.Fprintf(c.App.ErrWriter, "Database: %s (table %s)\n", cfg.DBPath, cfg.TableName)
	fmt.Fprintf(c.App.ErrWriter, "Embedding host: %s\n", aiConfig.EmbeddingHost)
	fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", aiConfig.EmbeddingModel)
	fmt.Fprintln(c.App.ErrWriter)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}
