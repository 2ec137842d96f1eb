package adapter

import (
	"context"
	"log/slog"

	"github.com/poiesic/memvault/core"
)

// Graph is the attachment point for a Neo4j backend. It honors the contract
// signatures but every operation fails with ErrNotImplemented.
type Graph struct {
	config Config
	logger *slog.Logger
}

var _ Adapter = (*Graph)(nil)

// NewGraph creates the graph placeholder.
func NewGraph(config Config, opts ...Option) *Graph {
	o := applyOptions(opts)
	return &Graph{
		config: config,
		logger: o.logger.With("component", "adapter", "backend", config.DBType),
	}
}

func (g *Graph) Initialize(ctx context.Context) error {
	g.logger.Warn("graph backend requested but not implemented", "uri", g.config.Neo4jURI)
	return ErrNotImplemented
}

func (g *Graph) IsInitialized() bool { return false }

func (g *Graph) AddDialogue(context.Context, core.Dialogue) (Outcome, error) {
	return Outcome{}, ErrNotImplemented
}

func (g *Graph) AddDialogues(context.Context, []core.Dialogue) (Outcome, error) {
	return Outcome{}, ErrNotImplemented
}

func (g *Graph) Finalize(context.Context) (Outcome, error) {
	return Outcome{}, ErrNotImplemented
}

func (g *Graph) Query(context.Context, QueryOptions) (string, error) {
	return "", ErrNotImplemented
}

func (g *Graph) RetrieveAll(context.Context, int) ([]core.MemoryRecord, error) {
	return nil, ErrNotImplemented
}

func (g *Graph) Search(context.Context, string, int) ([]core.MemoryRecord, error) {
	return nil, ErrNotImplemented
}

func (g *Graph) DeleteMemory(context.Context, string) (Outcome, error) {
	return Outcome{}, ErrNotImplemented
}

func (g *Graph) GetStats(context.Context) (core.Stats, error) {
	return core.Stats{}, ErrNotImplemented
}

func (g *Graph) Clear(context.Context) (Outcome, error) {
	return Outcome{}, ErrNotImplemented
}

func (g *Graph) Close() error { return nil }
