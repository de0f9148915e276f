package vecindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movies.index")

	ix := New(3)
	require.NoError(t, ix.Build([][]float32{
		{1, 0, 0},
		{0.3, 0.4, 0.5},
		{0, 0, 1},
	}))
	require.NoError(t, ix.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ix.Dim(), loaded.Dim())
	assert.Equal(t, ix.Count(), loaded.Count())

	// The stored vectors must round-trip bit-for-bit so search results are
	// identical before and after persistence.
	require.Equal(t, ix.vectors, loaded.vectors)

	want, err := ix.Search([]float32{0.2, 0.5, 0.1}, 3)
	require.NoError(t, err)
	got, err := loaded.Search([]float32{0.2, 0.5, 0.1}, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveEmptyIndex(t *testing.T) {
	ix := New(3)
	err := ix.Save(filepath.Join(t.TempDir(), "empty.index"))
	assert.ErrorIs(t, err, ErrNotBuilt)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.index"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = LoadMapping(filepath.Join(t.TempDir(), "absent.mapping"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadRejectsNonIndexFile(t *testing.T) {
	// Shorter than the magic header; the loader must reject it cleanly
	// rather than read a partial magic.
	path := filepath.Join(t.TempDir(), "junk.index")
	require.NoError(t, os.WriteFile(path, []byte("MV"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "not a vector index file")

	mappingPath := filepath.Join(t.TempDir(), "junk.mapping")
	require.NoError(t, os.WriteFile(mappingPath, []byte("XX"), 0o644))
	_, err = LoadMapping(mappingPath)
	assert.ErrorContains(t, err, "not a mapping file")
}

func TestMappingRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.mapping")
	ids := []int64{42, 7, 19, 301}

	require.NoError(t, SaveMapping(path, ids))
	loaded, err := LoadMapping(path)
	require.NoError(t, err)
	assert.Equal(t, ids, loaded)
}

func TestLoadWithMapping(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "movies.index")
	mappingPath := filepath.Join(dir, "movies.mapping")

	ix := New(2)
	require.NoError(t, ix.Build([][]float32{{1, 0}, {0, 1}}))
	require.NoError(t, ix.Save(indexPath))

	t.Run("aligned", func(t *testing.T) {
		require.NoError(t, SaveMapping(mappingPath, []int64{10, 20}))
		loaded, ids, err := LoadWithMapping(indexPath, mappingPath)
		require.NoError(t, err)
		assert.Equal(t, 2, loaded.Count())
		assert.Equal(t, []int64{10, 20}, ids)
	})

	t.Run("misaligned", func(t *testing.T) {
		require.NoError(t, SaveMapping(mappingPath, []int64{10, 20, 30}))
		_, _, err := LoadWithMapping(indexPath, mappingPath)
		assert.ErrorIs(t, err, ErrAlignment)
	})
}
