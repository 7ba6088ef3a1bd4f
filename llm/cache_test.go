package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supalytic/supagent/llm"
)

// countingEmbedder counts the calls that reach the backing API.
type countingEmbedder struct {
	calls int
	err   error
}

func (e *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return []float32{float32(len(text)), 0.5}, nil
}

func (e *countingEmbedder) Dimensions() int { return 2 }

func TestCachingEmbedderMemoizesByText(t *testing.T) {
	inner := &countingEmbedder{}
	cached, err := llm.NewCachingEmbedder(inner)
	require.NoError(t, err)
	defer cached.Close()
	ctx := context.Background()

	first, err := cached.Embed(ctx, "what is the refund policy")
	require.NoError(t, err)
	second, err := cached.Embed(ctx, "what is the refund policy")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)

	_, err = cached.Embed(ctx, "a different question")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachingEmbedderDoesNotCacheFailures(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("embeddings unavailable")}
	cached, err := llm.NewCachingEmbedder(inner)
	require.NoError(t, err)
	defer cached.Close()
	ctx := context.Background()

	_, err = cached.Embed(ctx, "q")
	require.Error(t, err)

	inner.err = nil
	vector, err := cached.Embed(ctx, "q")
	require.NoError(t, err)
	assert.Len(t, vector, 2)
	assert.Equal(t, 2, inner.calls)
}

func TestCachingEmbedderReportsInnerDimensions(t *testing.T) {
	cached, err := llm.NewCachingEmbedder(&countingEmbedder{})
	require.NoError(t, err)
	defer cached.Close()

	assert.Equal(t, 2, cached.Dimensions())
}
