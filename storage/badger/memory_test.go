package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/memvault/core"
	"github.com/poiesic/memvault/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (storage.MemoryRepository, *Backend) {
	t.Helper()
	repo, _, backend, err := NewTestRepositories("memories")
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo, backend
}

func entry(id core.ID, restatement string, keywords ...string) *core.MemoryEntry {
	return &core.MemoryEntry{Id: id, Restatement: restatement, Keywords: keywords}
}

func TestMemoryRepository_AddAndGet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	e := &core.MemoryEntry{
		Id:          1001,
		Speaker:     "Alice",
		Content:     "I love pizza",
		Restatement: "Alice loves pizza.",
		Keywords:    []string{"pizza"},
		Timestamp:   ts,
	}
	added, err := repo.AddEntries(ctx, e)
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, core.ID(1001), added[0].Id)
	assert.NotZero(t, added[0].Sequence)
	assert.False(t, added[0].InsertedAt.IsZero())

	got, err := repo.GetEntry(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, "Alice loves pizza.", got.Restatement)
	assert.True(t, got.Timestamp.Equal(ts))
}

func TestMemoryRepository_AssignsIDAndTimestamp(t *testing.T) {
	repo, _ := newTestRepo(t)

	added, err := repo.AddEntries(context.Background(), entry(0, "No id given"))
	require.NoError(t, err)
	assert.NotZero(t, added[0].Id)
	assert.False(t, added[0].Timestamp.IsZero())
}

func TestMemoryRepository_RejectsInvalidAndDuplicate(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddEntries(ctx, entry(1, ""))
	assert.ErrorIs(t, err, core.ErrEmptyRestatement)

	_, err = repo.AddEntries(ctx, entry(7, "first"))
	require.NoError(t, err)
	_, err = repo.AddEntries(ctx, entry(7, "second"))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	got, err := repo.GetEntry(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Restatement)
}

func TestMemoryRepository_GetMissing(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetEntry(ctx, 12345)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = repo.AddEntries(ctx, entry(1, "one"))
	require.NoError(t, err)
	found, err := repo.GetEntries(ctx, 1, 2, 3)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, core.ID(1), found[0].Id)
}

func TestMemoryRepository_ListInsertionOrder(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	// IDs deliberately out of numeric order
	_, err := repo.AddEntries(ctx, entry(30, "first"), entry(10, "second"))
	require.NoError(t, err)
	_, err = repo.AddEntries(ctx, entry(20, "third"), entry(40, "fourth"))
	require.NoError(t, err)

	all, err := repo.ListEntries(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	var order []string
	for _, e := range all {
		order = append(order, e.Restatement)
	}
	assert.Equal(t, []string{"first", "second", "third", "fourth"}, order)

	limited, err := repo.ListEntries(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "second", limited[1].Restatement)

	rest, err := repo.ListEntries(ctx, limited[1].Sequence, 0)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "third", rest[0].Restatement)
}

func TestMemoryRepository_ListEmpty(t *testing.T) {
	repo, _ := newTestRepo(t)

	all, err := repo.ListEntries(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryRepository_Delete(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddEntries(ctx, entry(1, "one", "alpha"), entry(2, "two", "alpha"), entry(3, "three"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteEntries(ctx, 2))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	all, err := repo.ListEntries(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, core.ID(1), all[0].Id)
	assert.Equal(t, core.ID(3), all[1].Id)

	hits, err := repo.FindByKeywords(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, map[core.ID]int{1: 1}, hits)

	err = repo.DeleteEntries(ctx, 2)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMemoryRepository_DeleteMissingLeavesOthers(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddEntries(ctx, entry(1, "one"))
	require.NoError(t, err)

	err = repo.DeleteEntries(ctx, 1, 99)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "failed delete must not remove anything")
}

func TestMemoryRepository_Update(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	added, err := repo.AddEntries(ctx, entry(5, "old", "tea"))
	require.NoError(t, err)
	seq := added[0].Sequence

	updated := entry(5, "new", "coffee")
	updated.Vector = []float32{1, 0}
	_, err = repo.UpdateEntries(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, seq, updated.Sequence)

	got, err := repo.GetEntry(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Restatement)
	assert.Equal(t, []float32{1, 0}, got.Vector)

	hits, err := repo.FindByKeywords(ctx, "tea")
	require.NoError(t, err)
	assert.Empty(t, hits)
	hits, err = repo.FindByKeywords(ctx, "coffee")
	require.NoError(t, err)
	assert.Equal(t, 1, hits[5])

	_, err = repo.UpdateEntries(ctx, entry(6, "missing"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMemoryRepository_FindByKeywords(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	e1 := entry(1, "Alice loves pizza and robotics.", "pizza", "robotics")
	e1.Persons = []string{"Alice"}
	e2 := entry(2, "Bob discussed FastAPI testing.", "FastAPI testing")
	e2.Persons = []string{"Bob"}
	_, err := repo.AddEntries(ctx, e1, e2)
	require.NoError(t, err)

	tests := []struct {
		name  string
		words []string
		want  map[core.ID]int
	}{
		{name: "single keyword", words: []string{"pizza"}, want: map[core.ID]int{1: 1}},
		{name: "case insensitive", words: []string{"PIZZA"}, want: map[core.ID]int{1: 1}},
		{name: "person", words: []string{"bob"}, want: map[core.ID]int{2: 1}},
		{name: "multi word keyword split", words: []string{"testing"}, want: map[core.ID]int{2: 1}},
		{name: "counts distinct words", words: []string{"pizza", "robotics", "alice"}, want: map[core.ID]int{1: 3}},
		{name: "no match", words: []string{"sushi"}, want: map[core.ID]int{}},
		{name: "no words", words: nil, want: map[core.ID]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := repo.FindByKeywords(ctx, tt.words...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hits)
		})
	}
}

func TestMemoryRepository_FindSimilar(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	a := entry(1, "a")
	a.Vector = []float32{1, 0}
	b := entry(2, "b")
	b.Vector = []float32{0.8, 0.6}
	c := entry(3, "c")
	c.Vector = []float32{0, 1}
	unembedded := entry(4, "d")
	_, err := repo.AddEntries(ctx, a, b, c, unembedded)
	require.NoError(t, err)

	results, err := repo.FindSimilar(ctx, []float32{1, 0}, 0.5, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, core.ID(1), results[0].Entry.Id)
	assert.Equal(t, core.ID(2), results[1].Entry.Id)
	assert.InDelta(t, 0.8, results[1].Score, 1e-6)

	limited, err := repo.FindSimilar(ctx, []float32{1, 0}, 0, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMemoryRepository_CountAndMaxID(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	maxID, err := repo.MaxID(ctx)
	require.NoError(t, err)
	assert.Zero(t, maxID)

	_, err = repo.AddEntries(ctx, entry(1700000000000000005, "x"), entry(300, "y"), entry(1700000000000000001, "z"))
	require.NoError(t, err)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	maxID, err = repo.MaxID(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.ID(1700000000000000005), maxID)
}

func TestMemoryRepository_Clear(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddEntries(ctx, entry(1, "one", "alpha"), entry(2, "two", "beta"))
	require.NoError(t, err)
	before, err := repo.ListEntries(ctx, 0, 0)
	require.NoError(t, err)

	require.NoError(t, repo.Clear(ctx))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	all, err := repo.ListEntries(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
	hits, err := repo.FindByKeywords(ctx, "alpha", "beta")
	require.NoError(t, err)
	assert.Empty(t, hits)

	// The table stays usable and insertion order keeps increasing
	added, err := repo.AddEntries(ctx, entry(1, "again"))
	require.NoError(t, err)
	assert.Greater(t, added[0].Sequence, before[1].Sequence)
}

func TestMemoryRepository_TablesAreIsolated(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	left, err := NewMemoryRepository(backend, "left")
	require.NoError(t, err)
	defer left.Close()
	right, err := NewMemoryRepository(backend, "right")
	require.NoError(t, err)
	defer right.Close()

	_, err = left.AddEntries(ctx, entry(1, "left one", "shared"))
	require.NoError(t, err)
	_, err = right.AddEntries(ctx, entry(1, "right one", "shared"), entry(2, "right two"))
	require.NoError(t, err)

	require.NoError(t, left.Clear(ctx))

	leftCount, err := left.Count(ctx)
	require.NoError(t, err)
	rightCount, err := right.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, leftCount)
	assert.Equal(t, 2, rightCount)

	hits, err := right.FindByKeywords(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, map[core.ID]int{1: 1}, hits)
}

func TestNewMemoryRepository_InvalidTable(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	for _, name := range []string{"", "a:b", "nul\x00"} {
		repo, err := NewMemoryRepository(backend, name)
		assert.ErrorIs(t, err, storage.ErrInvalidTable, "table %q", name)
		assert.Nil(t, repo, "table %q", name)
	}
}
