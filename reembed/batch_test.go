package reembed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/memvault/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockEmbedder for testing
type mockEmbedder struct {
	mu             sync.Mutex
	calls          int
	embedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *mockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (m *mockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	fn := m.embedTextsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, texts)
	}
	// Default: unnormalized vectors with magnitude 3
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = []float32{1.0, 2.0, 2.0}
	}
	return result, nil
}

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func magnitude(v []float32) float32 {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	return sum
}

func TestBatchProcessor_Process(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	added := seedEntries(t, repo, 2)

	processor := NewBatchProcessor(repo, &mockEmbedder{}, 3, 10*time.Millisecond)
	require.NoError(t, processor.Process(ctx, added))

	updated, err := repo.GetEntries(ctx, added[0].Id, added[1].Id)
	require.NoError(t, err)
	require.Len(t, updated, 2)

	for _, entry := range updated {
		require.NotEmpty(t, entry.Vector, "should have embedding")
		assert.InDelta(t, 1.0, magnitude(entry.Vector), 0.01, "vector should be normalized")
		assert.NotEmpty(t, entry.Restatement, "update must keep the restatement")
	}
}

func TestBatchProcessor_EmbedsRestatement(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	added := seedEntries(t, repo, 1)

	var got []string
	embedder := &mockEmbedder{embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
		got = append(got, texts...)
		return [][]float32{{1, 0, 0}}, nil
	}}

	require.NoError(t, NewBatchProcessor(repo, embedder, 1, time.Millisecond).Process(context.Background(), added))
	assert.Equal(t, []string{"memory 0"}, got)
}

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	embedder := &mockEmbedder{}
	processor := NewBatchProcessor(repo, embedder, 3, 10*time.Millisecond)

	require.NoError(t, processor.Process(context.Background(), []*core.MemoryEntry{}))
	assert.Zero(t, embedder.callCount())
}

func TestBatchProcessor_EmbeddingError(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	added := seedEntries(t, repo, 1)

	expectedErr := errors.New("embedding error")
	embedder := &mockEmbedder{embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, expectedErr
	}}

	err := NewBatchProcessor(repo, embedder, 3, time.Millisecond).Process(context.Background(), added)
	require.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 3, embedder.callCount())
}

func TestBatchProcessor_Retry(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	added := seedEntries(t, repo, 1)

	attempts := 0
	embedder := &mockEmbedder{embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("temporary error")
		}
		return [][]float32{{1.0, 0.0, 0.0}}, nil
	}}

	require.NoError(t, NewBatchProcessor(repo, embedder, 3, time.Millisecond).Process(context.Background(), added))
	assert.Equal(t, 2, attempts)
}

func TestBatchProcessor_CountMismatchIsNotRetried(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	added := seedEntries(t, repo, 3)

	embedder := &mockEmbedder{embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil
	}}

	err := NewBatchProcessor(repo, embedder, 5, time.Millisecond).Process(context.Background(), added)
	require.ErrorIs(t, err, ErrEmbeddingCountMismatch)
	assert.Equal(t, 1, embedder.callCount())
}

func TestBatchProcessor_DeletedEntry(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	added := seedEntries(t, repo, 2)
	require.NoError(t, repo.DeleteEntries(context.Background(), added[1].Id))

	err := NewBatchProcessor(repo, &mockEmbedder{}, 1, time.Millisecond).Process(context.Background(), added)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update entries")
}
