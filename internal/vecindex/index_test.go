package vecindex

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	ix := New(2)
	require.NoError(t, ix.Build([][]float32{
		{1, 0},
		{0, 1},
		{0.707, 0.707},
	}))

	matches, err := ix.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, 0, matches[0].Row)
	assert.Equal(t, 2, matches[1].Row)
	assert.Equal(t, 1, matches[2].Row)

	assert.InDelta(t, 1.0, float64(matches[0].Score), 1e-5)
	assert.InDelta(t, math.Sqrt2/2, float64(matches[1].Score), 1e-5)
	assert.InDelta(t, 0.0, float64(matches[2].Score), 1e-5)
}

func TestSearchNormalizesInputs(t *testing.T) {
	// Magnitude must not affect ranking: a scaled copy of the query vector
	// still scores as a perfect match.
	ix := New(3)
	require.NoError(t, ix.Build([][]float32{
		{10, 0, 0},
		{0, 0.5, 0},
	}))

	matches, err := ix.Search([]float32{3, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 0, matches[0].Row)
	assert.InDelta(t, 1.0, float64(matches[0].Score), 1e-5)
}

func TestSearchTopKLargerThanCount(t *testing.T) {
	ix := New(2)
	require.NoError(t, ix.Build([][]float32{{1, 0}, {0, 1}}))

	matches, err := ix.Search([]float32{1, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestSearchErrors(t *testing.T) {
	t.Run("not built", func(t *testing.T) {
		ix := New(2)
		_, err := ix.Search([]float32{1, 0}, 5)
		assert.ErrorIs(t, err, ErrNotBuilt)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		ix := New(2)
		require.NoError(t, ix.Build([][]float32{{1, 0}}))
		_, err := ix.Search([]float32{1, 0, 0}, 5)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("non-positive topK", func(t *testing.T) {
		ix := New(2)
		require.NoError(t, ix.Build([][]float32{{1, 0}}))
		matches, err := ix.Search([]float32{1, 0}, 0)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestBuildRejectsRaggedRows(t *testing.T) {
	ix := New(3)
	err := ix.Build([][]float32{{1, 0, 0}, {1, 0}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestAddAppends(t *testing.T) {
	ix := New(2)
	require.NoError(t, ix.Build([][]float32{{1, 0}}))
	require.NoError(t, ix.Add([][]float32{{0, 1}}))
	assert.Equal(t, 2, ix.Count())

	require.NoError(t, ix.Add(nil))
	assert.Equal(t, 2, ix.Count())
}
