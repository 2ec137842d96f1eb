package mock

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/poiesic/memvault/ai"
	"github.com/poiesic/memvault/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func TestMockEmbedder_Deterministic(t *testing.T) {
	e := NewMockEmbedder()
	ctx := context.Background()

	v1, err := e.EmbedText(ctx, "I love pizza")
	require.NoError(t, err)
	v2, err := e.EmbedText(ctx, "I love pizza")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Len(t, v1, Dimensions)
	assert.InDelta(t, 1.0, math.Sqrt(dot(v1, v1)), 1e-5)
	assert.Equal(t, 2, e.CallCount())
}

func TestMockEmbedder_SharedWordsAreSimilar(t *testing.T) {
	e := NewMockEmbedder()
	ctx := context.Background()

	vectors, err := e.EmbedTexts(ctx, []string{"pizza", "Alice: I love pizza", "the endpoint should be deterministic"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	assert.Greater(t, dot(vectors[0], vectors[1]), 0.3)
	assert.Less(t, dot(vectors[0], vectors[2]), 0.3)
}

func TestMockEmbedder_StopWordsOnly(t *testing.T) {
	v, err := NewMockEmbedder().EmbedText(context.Background(), "the and of")
	require.NoError(t, err)
	assert.Zero(t, dot(v, v))
}

func TestMockEmbedder_CustomFunc(t *testing.T) {
	e := NewMockEmbedder()
	e.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("down")
	}
	_, err := e.EmbedText(context.Background(), "x")
	assert.EqualError(t, err, "down")

	e.Reset()
	assert.Zero(t, e.CallCount())
	_, err = e.EmbedText(context.Background(), "x")
	assert.NoError(t, err)
}

func TestMockMemoryExtractor_Default(t *testing.T) {
	x := NewMockMemoryExtractor()

	got, err := x.Extract(context.Background(), core.Dialogue{Speaker: "Bob", Content: "We discussed FastAPI testing."})
	require.NoError(t, err)
	assert.Equal(t, "Bob: We discussed FastAPI testing.", got.Restatement)
	assert.Equal(t, []string{"discussed", "fastapi", "testing"}, got.Keywords)
	assert.Equal(t, []string{"Bob"}, got.Persons)
	assert.Equal(t, []string{"FastAPI"}, got.Entities)
	assert.Equal(t, 1, x.CallCount())
}

func TestMockMemoryExtractor_KeywordCap(t *testing.T) {
	p := NewMockProviderFromConfig(ai.NewConfig(ai.WithMaxKeywords(2)))

	got, err := p.MemoryExtractor().Extract(context.Background(), core.Dialogue{Speaker: "Cara", Content: "red green blue green"})
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "green"}, got.Keywords)
}

func TestMockMemoryExtractor_EmptyContent(t *testing.T) {
	_, err := NewMockMemoryExtractor().Extract(context.Background(), core.Dialogue{Speaker: "Cara", Content: "  "})
	assert.Error(t, err)
}

func TestMockAnswerer(t *testing.T) {
	a := NewMockAnswerer()
	got, err := a.Answer(context.Background(), "pizza?", []string{"Alice: I love pizza", "Dan: pizza on Fridays"})
	require.NoError(t, err)
	assert.Contains(t, got, "Alice: I love pizza | Dan: pizza on Fridays")
}

func TestMockProvider_ConcurrentUse(t *testing.T) {
	p := NewMockProvider().(*MockProvider)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = p.Embedder().EmbedText(ctx, "hello world")
			_, _ = p.MemoryExtractor().Extract(ctx, core.Dialogue{Speaker: "A", Content: "hello"})
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, p.GetMockEmbedder().CallCount())
	assert.Equal(t, 20, p.GetMockExtractor().CallCount())
	assert.NoError(t, p.Close())
}
