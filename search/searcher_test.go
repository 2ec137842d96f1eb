package search

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/memvault/ai/mock"
	"github.com/poiesic/memvault/core"
	"github.com/poiesic/memvault/storage"
	"github.com/poiesic/memvault/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepository(t *testing.T) storage.MemoryRepository {
	memoryRepo, _, backend, err := badger.NewTestRepositories("memories")
	require.NoError(t, err)
	t.Cleanup(func() {
		memoryRepo.Close()
		backend.Close()
	})
	return memoryRepo
}

func addEntries(t *testing.T, repo storage.MemoryRepository, entries ...*core.MemoryEntry) []*core.MemoryEntry {
	now := time.Now().UTC()
	for _, e := range entries {
		e.Timestamp = now
	}
	added, err := repo.AddEntries(context.Background(), entries...)
	require.NoError(t, err)
	require.Len(t, added, len(entries))
	return added
}

// fixedEmbedderProvider returns a provider whose embedder maps every query to vector.
func fixedEmbedderProvider(vector []float32) (*mock.MockProvider, *mock.MockAnswerer) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return vector, nil
	}
	answerer := mock.NewMockAnswerer()
	return mock.NewMockProviderWithServices(embedder, mock.NewMockMemoryExtractor(), answerer), answerer
}

func TestNewSearcher(t *testing.T) {
	repo := setupTestRepository(t)
	provider := mock.NewMockProvider()

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(repo, provider)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
		assert.Equal(t, DefaultMinSimilarity, searcher.minSimilarity)
	})

	t.Run("with options", func(t *testing.T) {
		searcher, err := NewSearcher(repo, provider, WithLogger(nil), WithMinSimilarity(0.4))
		require.NoError(t, err)
		assert.Equal(t, float32(0.4), searcher.minSimilarity)
	})

	t.Run("out of range threshold keeps default", func(t *testing.T) {
		searcher, err := NewSearcher(repo, provider, WithMinSimilarity(1.5))
		require.NoError(t, err)
		assert.Equal(t, DefaultMinSimilarity, searcher.minSimilarity)
	})

	t.Run("nil memory repository", func(t *testing.T) {
		_, err := NewSearcher(nil, provider)
		assert.Equal(t, ErrMemoryRepositoryRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewSearcher(repo, nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})
}

func TestFindSimilar_EmptyDatabase(t *testing.T) {
	searcher, err := NewSearcher(setupTestRepository(t), mock.NewMockProvider())
	require.NoError(t, err)

	results, err := searcher.FindSimilar(context.Background(), "test query", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilar_EmptyQuery(t *testing.T) {
	searcher, err := NewSearcher(setupTestRepository(t), mock.NewMockProvider())
	require.NoError(t, err)

	_, err = searcher.FindSimilar(context.Background(), "   ", 10)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestFindSimilar_SemanticSearchOnly(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepository(t)
	addEntries(t, repo,
		&core.MemoryEntry{Restatement: "This is about artificial intelligence", Vector: []float32{1, 0, 0}},
		&core.MemoryEntry{Restatement: "This is about machine learning", Vector: []float32{0.8, 0.6, 0}},
		&core.MemoryEntry{Restatement: "This is about cooking recipes", Vector: []float32{0, 0, 1}},
	)

	provider, _ := fixedEmbedderProvider([]float32{1, 0, 0})
	searcher, err := NewSearcher(repo, provider)
	require.NoError(t, err)

	results, err := searcher.FindSimilar(ctx, "zzz", 10)
	require.NoError(t, err)

	// The cooking entry is below the 0.60 threshold.
	require.Len(t, results, 2)
	assert.Equal(t, "This is about artificial intelligence", results[0].Entry.Restatement)
	assert.InDelta(t, 1.0, results[0].Score, 0.001)
	assert.InDelta(t, 0.8, results[1].Score, 0.001)
}

func TestFindSimilar_KeywordSearchOnly(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepository(t)
	addEntries(t, repo,
		&core.MemoryEntry{Restatement: "Alice loves pizza.", Keywords: []string{"pizza"}, Vector: []float32{1, 0, 0}},
		&core.MemoryEntry{Restatement: "Bob ordered a pie.", Keywords: []string{"pizza", "order"}, Vector: []float32{1, 0, 0}},
		&core.MemoryEntry{Restatement: "Carol went hiking.", Keywords: []string{"hiking"}, Vector: []float32{1, 0, 0}},
	)

	// Orthogonal query vector: nothing passes the semantic stage.
	provider, _ := fixedEmbedderProvider([]float32{0, 1, 0})
	searcher, err := NewSearcher(repo, provider)
	require.NoError(t, err)

	results, err := searcher.FindSimilar(ctx, "Where is the pizza?", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Both are keyword hits; the first also contains the word verbatim.
	assert.Equal(t, "Alice loves pizza.", results[0].Entry.Restatement)
	assert.InDelta(t, 1.5, results[0].Score, 0.001)
	assert.Equal(t, "Bob ordered a pie.", results[1].Entry.Restatement)
	assert.InDelta(t, 1.5, results[1].Score, 0.001, "keywords count towards the verbatim check")
}

func TestFindSimilar_HybridSearch(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepository(t)
	addEntries(t, repo,
		&core.MemoryEntry{Restatement: "Semantic only", Vector: []float32{1, 0, 0}},
		&core.MemoryEntry{Restatement: "Both signals", Keywords: []string{"robotics"}, Vector: []float32{0.7, 0.71414284, 0}},
		&core.MemoryEntry{Restatement: "Keyword only", Keywords: []string{"robotics"}, Vector: []float32{0, 0, 1}},
	)

	provider, _ := fixedEmbedderProvider([]float32{1, 0, 0})
	searcher, err := NewSearcher(repo, provider)
	require.NoError(t, err)

	results, err := searcher.FindSimilar(ctx, "robotics", 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// keyword: 1.2 + 0.3 verbatim; both: 1.5*0.7 + 0.3; semantic: 1.0
	assert.Equal(t, "Keyword only", results[0].Entry.Restatement)
	assert.InDelta(t, 1.5, results[0].Score, 0.001)
	assert.Equal(t, "Both signals", results[1].Entry.Restatement)
	assert.InDelta(t, 1.35, results[1].Score, 0.001)
	assert.Equal(t, "Semantic only", results[2].Entry.Restatement)
	assert.InDelta(t, 1.0, results[2].Score, 0.001)
}

func TestFindSimilar_WithMaxHits(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepository(t)
	for i := 0; i < 8; i++ {
		addEntries(t, repo, &core.MemoryEntry{Restatement: "note", Keywords: []string{"note"}, Vector: []float32{1, 0, 0}})
	}

	provider, _ := fixedEmbedderProvider([]float32{1, 0, 0})
	searcher, err := NewSearcher(repo, provider)
	require.NoError(t, err)

	results, err := searcher.FindSimilar(ctx, "note", 5)
	require.NoError(t, err)
	assert.Len(t, results, 5)

	results, err = searcher.FindSimilar(ctx, "note", 0)
	require.NoError(t, err)
	assert.Len(t, results, 8)
}

func TestFindSimilar_EmbedderError(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedder offline")
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockMemoryExtractor(), mock.NewMockAnswerer())
	searcher, err := NewSearcher(setupTestRepository(t), provider)
	require.NoError(t, err)

	_, err = searcher.FindSimilar(context.Background(), "anything", 5)
	assert.EqualError(t, err, "embedder offline")
}

func TestFindSimilarWithMonitor(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepository(t)
	addEntries(t, repo, &core.MemoryEntry{Restatement: "Test message", Keywords: []string{"test"}, Vector: []float32{1, 0, 0}})

	provider, _ := fixedEmbedderProvider([]float32{1, 0, 0})
	searcher, err := NewSearcher(repo, provider)
	require.NoError(t, err)

	monitor := &testMonitor{}
	results, err := searcher.FindSimilarWithMonitor(ctx, "test query", 10, monitor)
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	assert.True(t, monitor.startCalled)
	assert.True(t, monitor.finishCalled)
	assert.Equal(t, []string{"test", "query"}, monitor.words)
	assert.Equal(t, 1, monitor.bothHits)

	// The log monitor must accept every stage without panicking.
	_, err = searcher.FindSimilarWithMonitor(ctx, "test query", 10, NewLogMonitor(slog.Default()))
	require.NoError(t, err)
}

// testMonitor is a simple test implementation of SearchMonitor
type testMonitor struct {
	startCalled  bool
	finishCalled bool
	words        []string
	bothHits     int
}

func (m *testMonitor) Start(query string) {
	m.startCalled = true
}

func (m *testMonitor) AfterSemanticSearch(ids []core.ID) {}

func (m *testMonitor) AfterQueryTokenization(words []string) {
	m.words = words
}

func (m *testMonitor) AfterKeywordSearch(ids iter.Seq[core.ID]) {}

func (m *testMonitor) AfterEntryRetrieval(entries []*core.MemoryEntry) {}

func (m *testMonitor) SemanticAndKeywordHit(entry *core.MemoryEntry) {
	m.bothHits++
}

func (m *testMonitor) SemanticHit(entry *core.MemoryEntry) {}

func (m *testMonitor) KeywordHit(entry *core.MemoryEntry) {}

func (m *testMonitor) Finish(results []*core.SearchResult) {
	m.finishCalled = true
}

func TestAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("no match skips the answerer", func(t *testing.T) {
		provider, answerer := fixedEmbedderProvider([]float32{1, 0, 0})
		searcher, err := NewSearcher(setupTestRepository(t), provider)
		require.NoError(t, err)

		answer, err := searcher.Ask(ctx, "What about pizza?", 0)
		require.NoError(t, err)
		assert.Equal(t, NoMatchAnswer, answer)
		assert.Zero(t, answerer.CallCount())
	})

	t.Run("answers from matching memories", func(t *testing.T) {
		repo := setupTestRepository(t)
		embedder := mock.NewMockEmbedder()
		restatement := "Alice: I love pizza and robotics."
		vector, err := embedder.EmbedText(ctx, restatement)
		require.NoError(t, err)
		addEntries(t, repo, &core.MemoryEntry{Restatement: restatement, Keywords: []string{"pizza", "robotics"}, Vector: vector})

		searcher, err := NewSearcher(repo, mock.NewMockProvider())
		require.NoError(t, err)

		answer, err := searcher.Ask(ctx, "pizza", 0)
		require.NoError(t, err)
		assert.Contains(t, strings.ToLower(answer), "pizza")
	})

	t.Run("answerer errors propagate", func(t *testing.T) {
		repo := setupTestRepository(t)
		addEntries(t, repo, &core.MemoryEntry{Restatement: "x", Keywords: []string{"pizza"}, Vector: []float32{1, 0, 0}})

		provider, answerer := fixedEmbedderProvider([]float32{1, 0, 0})
		answerer.AnswerFunc = func(ctx context.Context, q string, m []string) (string, error) {
			return "", errors.New("model unavailable")
		}
		searcher, err := NewSearcher(repo, provider)
		require.NoError(t, err)

		_, err = searcher.Ask(ctx, "pizza", 3)
		assert.EqualError(t, err, "model unavailable")
	})
	t.Run("per-call threshold", func(t *testing.T) {
		repo := setupTestRepository(t)
		addEntries(t, repo, &core.MemoryEntry{Restatement: "Bob plays chess.", Keywords: []string{"chess"}, Vector: []float32{0.7, 0.71414284, 0}})

		provider, answerer := fixedEmbedderProvider([]float32{1, 0, 0})
		searcher, err := NewSearcher(repo, provider)
		require.NoError(t, err)

		answer, err := searcher.AskWithThreshold(ctx, "orbit", 0, 0.9)
		require.NoError(t, err)
		assert.Equal(t, NoMatchAnswer, answer)

		_, err = searcher.AskWithThreshold(ctx, "orbit", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, answerer.CallCount())
	})
}
