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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/memvault/ai"
	"github.com/poiesic/memvault/core"
	"github.com/poiesic/memvault/storage"
)

// CheckpointName is the processor type under which progress is saved.
const CheckpointName = "reembed"

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of entries sent to the embedder at once
	BatchSize int

	// Workers is the number of batches embedded concurrently
	Workers int

	// ReportInterval is how often to report progress (number of entries)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for each embedding call
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Resume continues after the saved checkpoint instead of starting over
	Resume bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		Workers:        4,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		Resume:         true,
	}
}

// Reembedder orchestrates the reembedding of every memory entry of a table.
type Reembedder struct {
	repo        storage.MemoryRepository
	checkpoints storage.CheckpointRepository
	config      *Config
	progress    io.Writer
	processor   *BatchProcessor
	iterator    *EntryIterator
	logger      *slog.Logger
}

// NewReembedder creates a new reembedder.
// checkpoints may be nil, in which case every run starts from the beginning.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.MemoryRepository, checkpoints storage.CheckpointRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		repo:        repo,
		checkpoints: checkpoints,
		config:      config,
		progress:    progress,
		processor:   NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
		iterator:    NewEntryIterator(repo, config.BatchSize),
		logger:      slog.Default().With("component", "reembed"),
	}, nil
}

// Run reembeds every entry inserted after the saved checkpoint, or every
// entry when there is none. The checkpoint is removed once the run completes.
func (r *Reembedder) Run(ctx context.Context) error {
	total, err := r.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count entries: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No entries found in table (0 entries)\n")
		return r.clearCheckpoint(ctx)
	}

	afterSeq, done, err := r.startingPoint(ctx)
	if err != nil {
		return err
	}

	pool, err := ants.NewPool(r.config.Workers)
	if err != nil {
		return err
	}
	defer pool.Release()

	if done > 0 {
		fmt.Fprintf(r.progress, "Resuming reembedding after %d of %d entries\n", done, total)
	} else {
		fmt.Fprintf(r.progress, "Starting reembedding of %d entries (batch size: %d, workers: %d)\n",
			total, r.iterator.batchSize, r.config.Workers)
	}

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.StartAt(done)

	window := make([][]*core.MemoryEntry, 0, r.config.Workers)
	flush := func() error {
		if len(window) == 0 {
			return nil
		}

		errs := make([]error, len(window))
		var wg sync.WaitGroup
		for i, batch := range window {
			wg.Add(1)
			submitErr := pool.Submit(func() {
				defer wg.Done()
				if errs[i] = r.processor.Process(ctx, batch); errs[i] == nil {
					tracker.Increment(len(batch))
				}
			})
			if submitErr != nil {
				wg.Done()
				errs[i] = submitErr
			}
		}
		wg.Wait()

		if err := errors.Join(errs...); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		for _, batch := range window {
			done += len(batch)
		}
		last := window[len(window)-1]
		afterSeq = last[len(last)-1].Sequence
		window = window[:0]

		return r.saveCheckpoint(ctx, afterSeq, done)
	}

	err = r.iterator.ForEach(ctx, afterSeq, func(batch []*core.MemoryEntry) error {
		window = append(window, batch)
		if len(window) < cap(window) {
			return nil
		}
		return flush()
	})
	if err == nil {
		err = flush()
	}
	if err != nil {
		r.logger.Error("reembedding stopped", "processed", done, "err", err)
		return err
	}

	tracker.Finish()
	if err := r.clearCheckpoint(ctx); err != nil {
		return err
	}

	processed := tracker.Processed()
	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d entries in %v (%.1f entries/sec)\n",
		processed, elapsed.Round(time.Millisecond), float64(processed)/max(elapsed.Seconds(), 1e-9))

	return nil
}

func (r *Reembedder) startingPoint(ctx context.Context) (uint64, int, error) {
	if r.checkpoints == nil {
		return 0, 0, nil
	}
	if !r.config.Resume {
		return 0, 0, r.clearCheckpoint(ctx)
	}

	checkpoint, err := r.checkpoints.LoadCheckpoint(ctx, CheckpointName)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if checkpoint == nil {
		return 0, 0, nil
	}
	r.logger.Info("resuming from checkpoint", "lastSequence", checkpoint.LastSequence, "processed", checkpoint.Processed)
	return checkpoint.LastSequence, checkpoint.Processed, nil
}

func (r *Reembedder) saveCheckpoint(ctx context.Context, lastSeq uint64, processed int) error {
	if r.checkpoints == nil {
		return nil
	}
	err := r.checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{
		ProcessorType: CheckpointName,
		LastSequence:  lastSeq,
		Processed:     processed,
		UpdatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

func (r *Reembedder) clearCheckpoint(ctx context.Context) error {
	if r.checkpoints == nil {
		return nil
	}
	return r.checkpoints.DeleteCheckpoint(ctx, CheckpointName)
}
