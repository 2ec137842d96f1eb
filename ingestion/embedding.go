package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/poiesic/memvault/ai"
)

// embeddingProcessor embeds the restatement of a prepared entry.
type embeddingProcessor struct {
	embedder ai.Embedder
	// dims is the vector length seen first; later vectors must match it.
	dims   atomic.Int64
	logger *slog.Logger
}

var _ processor = (*embeddingProcessor)(nil)

func newEmbeddingProcessor(embedder ai.Embedder, logger *slog.Logger) (processor, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		embedder: embedder,
		logger:   logger.With("processor", "embeddings"),
	}, nil
}

func (ep *embeddingProcessor) process(ctx context.Context, j *job) error {
	vector, err := ep.embedder.EmbedText(ctx, j.entry.Restatement)
	if err != nil {
		ep.logger.Error("error generating embedding", "index", j.index, "err", err)
		return err
	}
	if len(vector) == 0 {
		return fmt.Errorf("%w: empty vector", ErrVectorMismatch)
	}

	n := int64(len(vector))
	if !ep.dims.CompareAndSwap(0, n) && ep.dims.Load() != n {
		return fmt.Errorf("%w: expected %d, received %d", ErrVectorMismatch, ep.dims.Load(), n)
	}

	j.entry.Vector = ai.NormalizeVector(vector)
	return nil
}
