package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/memvault/ai"
	"github.com/poiesic/memvault/core"
	"github.com/poiesic/memvault/storage"
)

// Pipeline orchestrates extraction, embedding and storage of dialogue turns.
type Pipeline struct {
	memoryRepository storage.MemoryRepository
	pool             *ants.Pool
	processors       []processor
	logger           *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent preparation.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(memoryRepository storage.MemoryRepository, provider ai.AIProvider, opts ...Option) (*Pipeline, error) {
	if memoryRepository == nil {
		return nil, ErrMemoryRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		memoryRepository: memoryRepository,
		pool:             pool,
		logger:           slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "ingestion")

	// Processors are built after options so they pick up the final logger.
	extraction, err := newExtractionProcessor(provider.MemoryExtractor(), p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	embedding, err := newEmbeddingProcessor(provider.Embedder(), p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.processors = []processor{extraction, embedding}

	return p, nil
}

// Item is one dialogue to ingest under a caller-reserved ID.
type Item struct {
	ID       core.ID
	Dialogue core.Dialogue
}

// Result summarizes one Ingest call.
type Result struct {
	// Entries holds the stored entries in submission order.
	Entries []*core.MemoryEntry
	// Failed is the number of items that were not stored.
	Failed int
	// Err joins the per-item failures, or is nil when every item was stored.
	Err error
}

// IDs returns the IDs of the stored entries.
func (r *Result) IDs() []core.ID {
	ids := make([]core.ID, len(r.Entries))
	for i, e := range r.Entries {
		ids[i] = e.Id
	}
	return ids
}

// Ingest prepares items concurrently and stores each one in its own
// transaction. Per-item failures are reported in the Result; the returned
// error is reserved for a cancelled context.
func (p *Pipeline) Ingest(ctx context.Context, items []Item) (*Result, error) {
	if len(items) == 0 {
		return &Result{}, nil
	}
	p.logger.Debug("ingesting dialogues", "count", len(items))

	now := time.Now().UTC()
	jobs := make([]*job, len(items))
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		j := &job{index: i, id: item.ID, dialogue: item.Dialogue}
		jobs[i] = j

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			errs[i] = p.prepare(ctx, j, now)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{}
	for i, j := range jobs {
		if errs[i] == nil {
			added, err := p.memoryRepository.AddEntries(ctx, j.entry)
			if err == nil {
				result.Entries = append(result.Entries, added...)
				continue
			}
			errs[i] = err
		}
		result.Failed++
		p.logger.Warn("dialogue not stored", "index", i, "err", errs[i])
		errs[i] = fmt.Errorf("dialogue %d: %w", i, errs[i])
	}
	result.Err = errors.Join(errs...)

	p.logger.Info("ingested dialogues", "stored", len(result.Entries), "failed", result.Failed)
	return result, nil
}

func (p *Pipeline) prepare(ctx context.Context, j *job, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if j.id == 0 {
		return ErrMissingID
	}
	if err := core.ValidateDialogue(&j.dialogue); err != nil {
		return err
	}

	ts, _ := core.ParseTimestamp(j.dialogue.Timestamp)
	if ts.IsZero() {
		ts = now
	}
	j.timestamp = ts

	for _, proc := range p.processors {
		if err := proc.process(ctx, j); err != nil {
			return err
		}
	}
	return nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
