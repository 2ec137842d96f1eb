package search

import (
	"context"
	"log/slog"
	"maps"
	"sort"
	"strings"

	"github.com/poiesic/memvault/ai"
	"github.com/poiesic/memvault/core"
	"github.com/poiesic/memvault/storage"
)

const (
	// DefaultMinSimilarity is the cosine similarity a semantic hit must reach.
	DefaultMinSimilarity float32 = 0.60

	// DefaultMaxHits is the number of memories Ask hands to the answerer.
	DefaultMaxHits = 5

	// NoMatchAnswer is returned by Ask when no memory relates to the question.
	NoMatchAnswer = "No matching memories found"
)

// Searcher provides hybrid semantic and keyword search over memory entries.
type Searcher struct {
	memoryRepository storage.MemoryRepository
	embedder         ai.Embedder
	answerer         ai.Answerer
	minSimilarity    float32
	logger           *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMinSimilarity overrides DefaultMinSimilarity. Values outside (0, 1]
// keep the default.
func WithMinSimilarity(threshold float32) Option {
	return func(s *Searcher) error {
		if threshold > 0 && threshold <= 1 {
			s.minSimilarity = threshold
		}
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(memoryRepository storage.MemoryRepository, provider ai.AIProvider, opts ...Option) (*Searcher, error) {
	if memoryRepository == nil {
		return nil, ErrMemoryRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		memoryRepository: memoryRepository,
		embedder:         provider.Embedder(),
		answerer:         provider.Answerer(),
		minSimilarity:    DefaultMinSimilarity,
		logger:           slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindSimilar searches for memory entries related to the query.
// Returns up to maxHits results, ranked by relevance score.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]*core.SearchResult, error) {
	return s.FindSimilarWithMonitor(ctx, query, maxHits, nil)
}

// FindSimilarWithMonitor searches for memory entries related to the query with monitoring.
// The monitor receives callbacks at each stage of the search process.
// A maxHits <= 0 returns every related entry.
func (s *Searcher) FindSimilarWithMonitor(ctx context.Context, query string, maxHits int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	return s.find(ctx, query, maxHits, s.minSimilarity, monitor)
}

func (s *Searcher) find(ctx context.Context, query string, maxHits int, minSimilarity float32, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	// 1. Semantic stage
	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	matches, err := s.memoryRepository.FindSimilar(ctx, ai.NormalizeVector(embedding), minSimilarity, maxHits)
	if err != nil {
		s.logger.Error("error querying for similar entries", "err", err)
		return nil, err
	}

	semanticScores := make(map[core.ID]float32, len(matches))
	semanticIds := make([]core.ID, 0, len(matches))
	for _, match := range matches {
		semanticScores[match.Entry.Id] = match.Score
		semanticIds = append(semanticIds, match.Entry.Id)
	}
	monitor.AfterSemanticSearch(semanticIds)

	// 2. Keyword stage
	words := tokenizeAndFilter(query)
	monitor.AfterQueryTokenization(words)

	keywordHits := map[core.ID]int{}
	if len(words) > 0 {
		keywordHits, err = s.memoryRepository.FindByKeywords(ctx, words...)
		if err != nil {
			s.logger.Error("error querying keyword index", "words", words, "err", err)
			return nil, err
		}
	}
	monitor.AfterKeywordSearch(maps.Keys(keywordHits))

	// 3. Combine and score
	allIds := make(map[core.ID]struct{}, len(semanticScores)+len(keywordHits))
	for id := range semanticScores {
		allIds[id] = struct{}{}
	}
	for id := range keywordHits {
		allIds[id] = struct{}{}
	}
	if len(allIds) == 0 {
		monitor.Finish(nil)
		return []*core.SearchResult{}, nil
	}

	entries, err := s.memoryRepository.GetEntries(ctx, sortedIDs(allIds)...)
	if err != nil {
		s.logger.Error("error retrieving memory entries", "entryCount", len(allIds), "err", err)
		return nil, err
	}
	monitor.AfterEntryRetrieval(entries)

	results := make([]*core.SearchResult, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}

		similarity, inSemantic := semanticScores[entry.Id]
		_, inKeyword := keywordHits[entry.Id]

		var score float32
		switch {
		case inSemantic && inKeyword:
			score = 1.5 * similarity
			monitor.SemanticAndKeywordHit(entry)
		case inKeyword:
			score = 1.2
			monitor.KeywordHit(entry)
		default:
			score = similarity
			monitor.SemanticHit(entry)
		}

		if containsAllQueryWords(query, entry.Restatement, strings.Join(entry.Keywords, " ")) {
			score += 0.3
		}

		results = append(results, &core.SearchResult{Entry: entry, Score: score})
	}

	// Stable sort keeps ID order among equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if maxHits > 0 && len(results) > maxHits {
		results = results[:maxHits]
	}
	monitor.Finish(results)

	return results, nil
}

// Ask answers a question from the most relevant memories.
// Returns NoMatchAnswer without calling the answerer when nothing matches.
func (s *Searcher) Ask(ctx context.Context, question string, maxHits int) (string, error) {
	return s.AskWithThreshold(ctx, question, maxHits, 0)
}

// AskWithThreshold is Ask with a per-call minimum similarity.
// A threshold outside (0, 1] uses the searcher's configured minimum.
func (s *Searcher) AskWithThreshold(ctx context.Context, question string, maxHits int, threshold float32) (string, error) {
	if maxHits <= 0 {
		maxHits = DefaultMaxHits
	}
	if threshold <= 0 || threshold > 1 {
		threshold = s.minSimilarity
	}

	results, err := s.find(ctx, question, maxHits, threshold, nil)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		s.logger.Debug("no memories matched question", "question", question)
		return NoMatchAnswer, nil
	}

	memories := make([]string, len(results))
	for i, r := range results {
		memories[i] = r.Entry.Restatement
	}

	answer, err := s.answerer.Answer(ctx, question, memories)
	if err != nil {
		s.logger.Error("error generating answer", "err", err)
		return "", err
	}
	return answer, nil
}

func sortedIDs(set map[core.ID]struct{}) []core.ID {
	ids := make([]core.ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
