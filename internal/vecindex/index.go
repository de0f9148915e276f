// Package vecindex implements an in-process vector index for cosine
// similarity search over unit-normalized embeddings.
package vecindex

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrNotBuilt indicates search was attempted before any vectors were added.
	ErrNotBuilt = errors.New("index has not been built or loaded")

	// ErrDimensionMismatch indicates a vector's width does not match the index.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrNotFound indicates a persisted index artifact is absent.
	ErrNotFound = errors.New("index file not found")

	// ErrAlignment indicates the index and its ID mapping disagree in size.
	ErrAlignment = errors.New("index and id mapping are misaligned")
)

// Index stores unit-normalized float32 vectors of a fixed dimension and
// answers nearest-neighbor queries by inner product. Cosine similarity is
// implemented as inner product over normalized vectors, so normalization at
// both insert and query time is non-optional: skipping it would silently
// degrade ranking instead of failing.
//
// The index is read-only after startup in the serving path. Build and Add
// are maintenance operations and must not run concurrently with Search.
type Index struct {
	dim     int
	vectors [][]float32
}

// New creates an empty index for vectors of the given dimension.
func New(dim int) *Index {
	return &Index{dim: dim}
}

// Dim returns the vector dimension.
func (ix *Index) Dim() int {
	return ix.dim
}

// Count returns the number of stored vectors.
func (ix *Index) Count() int {
	return len(ix.vectors)
}

// Build replaces any existing contents with the given vectors. Every row is
// L2-normalized before insertion.
func (ix *Index) Build(vectors [][]float32) error {
	normalized, err := ix.validateAndNormalize(vectors)
	if err != nil {
		return err
	}
	ix.vectors = normalized
	return nil
}

// Add appends vectors to the existing contents. A nil or empty input is a
// no-op.
func (ix *Index) Add(vectors [][]float32) error {
	if len(vectors) == 0 {
		return nil
	}
	normalized, err := ix.validateAndNormalize(vectors)
	if err != nil {
		return err
	}
	ix.vectors = append(ix.vectors, normalized...)
	return nil
}

// Match is one search hit: the inner-product score and the row index of the
// matched vector.
type Match struct {
	Score float32
	Row   int
}

// Search returns the topK highest inner-product matches for the query,
// sorted descending by score. The query is normalized before comparison.
// If topK exceeds the stored count, all stored vectors are returned.
func (ix *Index) Search(query []float32, topK int) ([]Match, error) {
	if len(ix.vectors) == 0 {
		return nil, ErrNotBuilt
	}
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query has width %d, index dimension is %d",
			ErrDimensionMismatch, len(query), ix.dim)
	}
	if topK <= 0 {
		return nil, nil
	}

	q := make([]float32, len(query))
	copy(q, query)
	normalize(q)

	matches := make([]Match, len(ix.vectors))
	for i, v := range ix.vectors {
		matches[i] = Match{Score: dot(q, v), Row: i}
	}

	// Stable keeps insertion order among equal scores so results are
	// reproducible across identical queries.
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

func (ix *Index) validateAndNormalize(vectors [][]float32) ([][]float32, error) {
	normalized := make([][]float32, len(vectors))
	for i, row := range vectors {
		if len(row) != ix.dim {
			return nil, fmt.Errorf("%w: row %d has width %d, index dimension is %d",
				ErrDimensionMismatch, i, len(row), ix.dim)
		}
		cp := make([]float32, len(row))
		copy(cp, row)
		normalize(cp)
		normalized[i] = cp
	}
	return normalized, nil
}

// normalize scales v to unit L2 norm in place. Zero vectors are left as-is.
func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := 1.0 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
