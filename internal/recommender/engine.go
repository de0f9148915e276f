// Package recommender implements the retrieval-and-ranking engine that
// turns a user profile into a scored movie list.
package recommender

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nova-ai/movie-recommender/internal/catalog"
	"github.com/nova-ai/movie-recommender/internal/conversation"
	"github.com/nova-ai/movie-recommender/internal/embed"
	"github.com/nova-ai/movie-recommender/internal/interpret"
	"github.com/nova-ai/movie-recommender/internal/vecindex"
	"github.com/nova-ai/movie-recommender/pkg/logger"
	"github.com/nova-ai/movie-recommender/pkg/metrics"
	"go.uber.org/zap"
)

// ErrMissingQuery indicates a profile without query text; similarity search
// needs a query vector.
var ErrMissingQuery = errors.New("query_text is required")

// defaultMinRuntime is the floor applied when the profile carries no runtime
// constraint at all. It filters out shorts and trailers by default; this is
// a deliberate policy, not an oversight.
const defaultMinRuntime = 50

// Options tune the engine's pool sizes and boost weights.
type Options struct {
	TopK            int
	CandidatePoolK  int
	GenreBoost      float64
	PopularityBoost float64
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		TopK:            10,
		CandidatePoolK:  50,
		GenreBoost:      0.3,
		PopularityBoost: 0.05,
	}
}

// Recommendation is one ranked result.
type Recommendation struct {
	Rank        int     `json:"rank"`
	MovieID     int64   `json:"movie_id"`
	Title       string  `json:"title"`
	Genres      string  `json:"genres,omitempty"`
	Language    string  `json:"language,omitempty"`
	Runtime     int     `json:"runtime,omitempty"`
	ReleaseYear int     `json:"release_year,omitempty"`
	Similarity  float64 `json:"similarity"`
	FinalScore  float64 `json:"final_score"`
}

// Engine orchestrates query embedding, index search, hard filtering, soft
// boosting, deduplication, and ranking. The store, index, and mapping are
// read-only after startup and shared across concurrent calls.
type Engine struct {
	store    *catalog.Store
	embedder embed.Provider
	index    *vecindex.Index
	mapping  []int64
	opts     Options
	logger   *logger.Logger
}

// NewEngine creates a recommendation engine. The mapping must align with
// the index row-for-row; use vecindex.LoadWithMapping to guarantee that.
func NewEngine(
	store *catalog.Store,
	embedder embed.Provider,
	index *vecindex.Index,
	mapping []int64,
	opts Options,
	log *logger.Logger,
) (*Engine, error) {
	if index.Count() != len(mapping) {
		return nil, fmt.Errorf("%w: index has %d vectors, mapping has %d ids",
			vecindex.ErrAlignment, index.Count(), len(mapping))
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}
	if opts.CandidatePoolK <= 0 {
		opts.CandidatePoolK = DefaultOptions().CandidatePoolK
	}
	return &Engine{
		store:    store,
		embedder: embedder,
		index:    index,
		mapping:  mapping,
		opts:     opts,
		logger:   log,
	}, nil
}

type candidate struct {
	movie      catalog.Movie
	similarity float64
	finalScore float64
}

// Recommend produces the ranked movie list for a profile. An empty result
// is not an error: it means the hard filters eliminated every candidate.
func (e *Engine) Recommend(ctx context.Context, profile conversation.Profile) ([]Recommendation, error) {
	start := time.Now()

	recs, err := e.recommend(ctx, profile)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordRecommendation(status, time.Since(start).Seconds(), len(recs))
	return recs, err
}

func (e *Engine) recommend(ctx context.Context, profile conversation.Profile) ([]Recommendation, error) {
	if strings.TrimSpace(profile.QueryText) == "" {
		return nil, ErrMissingQuery
	}

	query, err := e.embedder.EmbedOne(ctx, profile.QueryText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchStart := time.Now()
	matches, err := e.index.Search(query, e.opts.CandidatePoolK)
	if err != nil {
		return nil, fmt.Errorf("index search failed: %w", err)
	}
	metrics.IndexSearchDuration.Observe(time.Since(searchStart).Seconds())

	// Attach similarity scores by catalog ID. If the same ID appears twice
	// among the neighbors, the later occurrence's score overwrites the
	// earlier one.
	scoreByID := make(map[int64]float64, len(matches))
	order := make([]int64, 0, len(matches))
	seen := make(map[int64]bool, len(matches))
	for _, m := range matches {
		if m.Row < 0 || m.Row >= len(e.mapping) {
			return nil, fmt.Errorf("%w: search returned row %d beyond mapping size %d",
				vecindex.ErrAlignment, m.Row, len(e.mapping))
		}
		id := e.mapping[m.Row]
		scoreByID[id] = float64(m.Score)
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}

	var candidates []candidate
	for _, id := range order {
		movie, err := e.store.GetByID(id)
		if err != nil {
			e.logger.Warn("candidate id missing from catalog", zap.Int64("movie_id", id))
			continue
		}
		if !passesHardFilters(movie, profile) {
			continue
		}
		candidates = append(candidates, candidate{movie: movie, similarity: scoreByID[id]})
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	e.applyBoosts(candidates, profile.Genres)

	// Stable sort keeps the original relative order among equal scores.
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].finalScore > candidates[b].finalScore
	})

	if len(candidates) > e.opts.TopK {
		candidates = candidates[:e.opts.TopK]
	}

	recs := make([]Recommendation, len(candidates))
	for i, c := range candidates {
		recs[i] = Recommendation{
			Rank:        i + 1,
			MovieID:     c.movie.ID,
			Title:       c.movie.Title,
			Genres:      c.movie.Genres,
			Language:    c.movie.Language,
			Runtime:     c.movie.Runtime,
			ReleaseYear: c.movie.ReleaseYear,
			Similarity:  c.similarity,
			FinalScore:  c.finalScore,
		}
	}
	return recs, nil
}

// passesHardFilters applies the exclusionary predicates: language
// membership, the runtime bound matching the constraint's kind, and the
// default runtime floor when no constraint was given.
func passesHardFilters(m catalog.Movie, profile conversation.Profile) bool {
	if len(profile.Languages) > 0 {
		found := false
		for _, l := range profile.Languages {
			if strings.EqualFold(l, m.Language) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if rt := profile.Runtime; rt != nil {
		switch rt.Kind {
		case interpret.ConstraintMax:
			if m.Runtime > rt.Minutes {
				return false
			}
		case interpret.ConstraintMin:
			if m.Runtime < rt.Minutes {
				return false
			}
		case interpret.ConstraintExact:
			if m.Runtime != rt.Minutes {
				return false
			}
		}
	} else if m.Runtime < defaultMinRuntime {
		return false
	}

	return true
}

// applyBoosts adds the soft score adjustments: a fixed genre bonus on any
// genre intersection, and a popularity bonus min-max normalized across the
// current candidate set (not globally). Popularity contributes nothing when
// the dataset lacks the vote_average column.
func (e *Engine) applyBoosts(candidates []candidate, genres []string) {
	prefer := make(map[string]bool, len(genres))
	for _, g := range genres {
		prefer[strings.ToLower(strings.TrimSpace(g))] = true
	}

	for i := range candidates {
		candidates[i].finalScore = candidates[i].similarity

		if len(prefer) > 0 {
			for g := range candidates[i].movie.GenreSet() {
				if prefer[g] {
					candidates[i].finalScore += e.opts.GenreBoost
					break
				}
			}
		}
	}

	if !e.store.HasVoteAverage() || e.opts.PopularityBoost == 0 {
		return
	}

	minVote, maxVote := candidates[0].movie.VoteAverage, candidates[0].movie.VoteAverage
	for _, c := range candidates[1:] {
		if c.movie.VoteAverage < minVote {
			minVote = c.movie.VoteAverage
		}
		if c.movie.VoteAverage > maxVote {
			maxVote = c.movie.VoteAverage
		}
	}

	span := maxVote - minVote + 1e-6
	for i := range candidates {
		norm := (candidates[i].movie.VoteAverage - minVote) / span
		candidates[i].finalScore += norm * e.opts.PopularityBoost
	}
}
