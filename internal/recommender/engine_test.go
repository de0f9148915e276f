package recommender

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-ai/movie-recommender/internal/catalog"
	"github.com/nova-ai/movie-recommender/internal/conversation"
	"github.com/nova-ai/movie-recommender/internal/interpret"
	"github.com/nova-ai/movie-recommender/internal/vecindex"
	"github.com/nova-ai/movie-recommender/pkg/logger"
)

// stubEmbedder returns a fixed query vector without calling any API.
type stubEmbedder struct {
	vector []float32
	err    error
}

func (s *stubEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	return s.vector, s.err
}

func (s *stubEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = s.vector
	}
	return out, s.err
}

func (s *stubEmbedder) Dimension() int {
	return len(s.vector)
}

func loadStore(t *testing.T, csv string) *catalog.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	s := catalog.NewStore(path)
	require.NoError(t, s.Load())
	return s
}

func buildIndex(t *testing.T, vectors [][]float32) *vecindex.Index {
	t.Helper()
	ix := vecindex.New(len(vectors[0]))
	require.NoError(t, ix.Build(vectors))
	return ix
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error")
	require.NoError(t, err)
	return log
}

const fixtureCSV = "movie_id,title,embedding_text,genres,cast,keywords,runtime,language,release_year\n" +
	"1,Long Action,an action epic,action,,,120,english,2015\n" +
	"2,Short Film,an experimental short,drama,,,30,english,2019\n" +
	"3,Slow Romance,a slow romance,romance,,,110,french,2008\n"

// fixtureEngine wires a three-movie catalog to an index whose rows line up
// with movie IDs 1, 2, 3. Row similarities against query (1,0) are 1.0,
// 0.95, and 0.9.
func fixtureEngine(t *testing.T, opts Options) *Engine {
	store := loadStore(t, fixtureCSV)
	ix := buildIndex(t, [][]float32{
		{1, 0},
		{0.95, 0.3122},
		{0.9, 0.43589},
	})
	e, err := NewEngine(store, &stubEmbedder{vector: []float32{1, 0}}, ix, []int64{1, 2, 3}, opts, testLogger(t))
	require.NoError(t, err)
	return e
}

func TestNewEngineRejectsMisalignedMapping(t *testing.T) {
	store := loadStore(t, fixtureCSV)
	ix := buildIndex(t, [][]float32{{1, 0}, {0, 1}})

	_, err := NewEngine(store, &stubEmbedder{vector: []float32{1, 0}}, ix, []int64{1}, DefaultOptions(), testLogger(t))
	assert.ErrorIs(t, err, vecindex.ErrAlignment)
}

func TestRecommendRequiresQueryText(t *testing.T) {
	e := fixtureEngine(t, DefaultOptions())

	_, err := e.Recommend(context.Background(), conversation.Profile{QueryText: "   "})
	assert.ErrorIs(t, err, ErrMissingQuery)
}

func TestRecommendDefaultRuntimeFloor(t *testing.T) {
	e := fixtureEngine(t, DefaultOptions())

	// Short Film scores second by similarity but sits under the 50-minute
	// floor, so it never reaches the result list.
	recs, err := e.Recommend(context.Background(), conversation.Profile{QueryText: "epic adventure"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(1), recs[0].MovieID)
	assert.Equal(t, int64(3), recs[1].MovieID)
}

func TestRecommendExplicitRuntimeReplacesFloor(t *testing.T) {
	e := fixtureEngine(t, DefaultOptions())

	recs, err := e.Recommend(context.Background(), conversation.Profile{
		QueryText: "something quick",
		Runtime:   &interpret.RuntimeConstraint{Kind: interpret.ConstraintMax, Minutes: 60},
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(2), recs[0].MovieID)
}

func TestRecommendLanguageFilter(t *testing.T) {
	e := fixtureEngine(t, DefaultOptions())

	recs, err := e.Recommend(context.Background(), conversation.Profile{
		QueryText: "a love story",
		Languages: []string{"French"},
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Slow Romance", recs[0].Title)
}

func TestRecommendEmptyAfterFiltersIsNotAnError(t *testing.T) {
	e := fixtureEngine(t, DefaultOptions())

	recs, err := e.Recommend(context.Background(), conversation.Profile{
		QueryText: "anything",
		Languages: []string{"korean"},
	})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecommendGenreBoostReorders(t *testing.T) {
	e := fixtureEngine(t, DefaultOptions())

	// Slow Romance trails Long Action on similarity (0.9 vs 1.0) but the
	// 0.3 genre bonus lifts it to the top.
	recs, err := e.Recommend(context.Background(), conversation.Profile{
		QueryText: "a love story",
		Genres:    []string{"romance"},
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(3), recs[0].MovieID)
	assert.Equal(t, int64(1), recs[1].MovieID)
	assert.Greater(t, recs[0].FinalScore, recs[0].Similarity)
}

func TestRecommendPopularityBoostReorders(t *testing.T) {
	csv := "movie_id,title,embedding_text,genres,cast,keywords,runtime,language,release_year,vote_average\n" +
		"1,Obscure,text,action,,,100,english,2010,5.0\n" +
		"2,Beloved,text,action,,,100,english,2012,9.0\n"
	store := loadStore(t, csv)
	ix := buildIndex(t, [][]float32{
		{1, 0},
		{0.99, 0.14107},
	})
	e, err := NewEngine(store, &stubEmbedder{vector: []float32{1, 0}}, ix, []int64{1, 2}, DefaultOptions(), testLogger(t))
	require.NoError(t, err)

	// Beloved trails on similarity by 0.01 but its normalized popularity
	// bonus is the full 0.05 against Obscure's zero.
	recs, err := e.Recommend(context.Background(), conversation.Profile{QueryText: "action"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Beloved", recs[0].Title)
	assert.Equal(t, "Obscure", recs[1].Title)
}

func TestRecommendDeduplicatesRepeatedIDs(t *testing.T) {
	csv := "movie_id,title,embedding_text,genres,cast,keywords,runtime,language,release_year\n" +
		"1,Only Movie,text,action,,,100,english,2010\n"
	store := loadStore(t, csv)
	ix := buildIndex(t, [][]float32{
		{1, 0},
		{0.9, 0.43589},
	})

	// Two index rows map to the same catalog ID; the result carries one
	// entry whose similarity comes from the later-ranked occurrence.
	e, err := NewEngine(store, &stubEmbedder{vector: []float32{1, 0}}, ix, []int64{1, 1}, DefaultOptions(), testLogger(t))
	require.NoError(t, err)

	recs, err := e.Recommend(context.Background(), conversation.Profile{QueryText: "anything"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(1), recs[0].MovieID)
	assert.InDelta(t, 0.9, recs[0].Similarity, 1e-3)
}

func TestRecommendTruncatesToTopK(t *testing.T) {
	opts := DefaultOptions()
	opts.TopK = 1
	e := fixtureEngine(t, opts)

	recs, err := e.Recommend(context.Background(), conversation.Profile{QueryText: "anything"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 1, recs[0].Rank)
}

func TestRecommendRanksAreSequential(t *testing.T) {
	e := fixtureEngine(t, DefaultOptions())

	recs, err := e.Recommend(context.Background(), conversation.Profile{QueryText: "anything"})
	require.NoError(t, err)
	for i, r := range recs {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestRecommendIsIdempotent(t *testing.T) {
	e := fixtureEngine(t, DefaultOptions())
	profile := conversation.Profile{QueryText: "a love story", Genres: []string{"romance"}}

	first, err := e.Recommend(context.Background(), profile)
	require.NoError(t, err)
	second, err := e.Recommend(context.Background(), profile)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecommendSkipsIDsMissingFromCatalog(t *testing.T) {
	store := loadStore(t, fixtureCSV)
	ix := buildIndex(t, [][]float32{
		{1, 0},
		{0.9, 0.43589},
	})
	e, err := NewEngine(store, &stubEmbedder{vector: []float32{1, 0}}, ix, []int64{999, 1}, DefaultOptions(), testLogger(t))
	require.NoError(t, err)

	recs, err := e.Recommend(context.Background(), conversation.Profile{QueryText: "anything"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(1), recs[0].MovieID)
}
