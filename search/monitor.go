package search

import (
	"iter"
	"log/slog"
	"slices"

	"github.com/poiesic/memvault/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterSemanticSearch(ids []core.ID)
	AfterQueryTokenization(words []string)
	AfterKeywordSearch(ids iter.Seq[core.ID])
	AfterEntryRetrieval(entries []*core.MemoryEntry)
	SemanticAndKeywordHit(entry *core.MemoryEntry)
	SemanticHit(entry *core.MemoryEntry)
	KeywordHit(entry *core.MemoryEntry)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                            {}
func (n *noopMonitor) AfterSemanticSearch(_ []core.ID)           {}
func (n *noopMonitor) AfterQueryTokenization(_ []string)         {}
func (n *noopMonitor) AfterKeywordSearch(_ iter.Seq[core.ID])    {}
func (n *noopMonitor) AfterEntryRetrieval(_ []*core.MemoryEntry) {}
func (n *noopMonitor) SemanticAndKeywordHit(_ *core.MemoryEntry) {}
func (n *noopMonitor) SemanticHit(_ *core.MemoryEntry)           {}
func (n *noopMonitor) KeywordHit(_ *core.MemoryEntry)            {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)             {}

// LogMonitor reports every search stage to a logger at debug level.
type LogMonitor struct {
	logger *slog.Logger
}

var _ SearchMonitor = (*LogMonitor)(nil)

// NewLogMonitor creates a monitor writing to logger, or slog.Default() if nil.
func NewLogMonitor(logger *slog.Logger) *LogMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMonitor{logger: logger.With("component", "search-trace")}
}

func (m *LogMonitor) Start(query string) {
	m.logger.Debug("search started", "query", query)
}

func (m *LogMonitor) AfterSemanticSearch(ids []core.ID) {
	m.logger.Debug("semantic stage", "hits", len(ids), "ids", ids)
}

func (m *LogMonitor) AfterQueryTokenization(words []string) {
	m.logger.Debug("query words", "words", words)
}

func (m *LogMonitor) AfterKeywordSearch(ids iter.Seq[core.ID]) {
	sorted := slices.Sorted(ids)
	m.logger.Debug("keyword stage", "hits", len(sorted), "ids", sorted)
}

func (m *LogMonitor) AfterEntryRetrieval(entries []*core.MemoryEntry) {
	m.logger.Debug("entries retrieved", "count", len(entries))
}

func (m *LogMonitor) SemanticAndKeywordHit(entry *core.MemoryEntry) {
	m.logger.Debug("hit", "kind", "semantic+keyword", "id", entry.Id)
}

func (m *LogMonitor) SemanticHit(entry *core.MemoryEntry) {
	m.logger.Debug("hit", "kind", "semantic", "id", entry.Id)
}

func (m *LogMonitor) KeywordHit(entry *core.MemoryEntry) {
	m.logger.Debug("hit", "kind", "keyword", "id", entry.Id)
}

func (m *LogMonitor) Finish(results []*core.SearchResult) {
	m.logger.Debug("search finished", "results", len(results))
}
