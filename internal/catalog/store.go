// Package catalog provides the in-memory movie catalog store.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrNotLoaded indicates an accessor was called before Load.
	ErrNotLoaded = errors.New("catalog not loaded")

	// ErrNotFound indicates the dataset file or a requested movie is absent.
	ErrNotFound = errors.New("not found")
)

// SchemaError reports required columns missing from the dataset.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset missing required columns: %s", strings.Join(e.Missing, ", "))
}

// requiredColumns is the schema the store refuses to load without.
var requiredColumns = []string{
	"movie_id",
	"title",
	"embedding_text",
	"genres",
	"cast",
	"keywords",
	"runtime",
	"language",
	"release_year",
}

// Movie is one row of the catalog.
type Movie struct {
	ID            int64   `json:"movie_id"`
	Title         string  `json:"title"`
	EmbeddingText string  `json:"-"`
	Genres        string  `json:"genres"` // comma-delimited tags
	Cast          string  `json:"cast,omitempty"`
	Keywords      string  `json:"keywords,omitempty"`
	Runtime       int     `json:"runtime"`
	Language      string  `json:"language"`
	ReleaseYear   int     `json:"release_year"`
	VoteAverage   float64 `json:"vote_average,omitempty"`
}

// GenreSet splits the delimited genre string into a lowercase set.
func (m *Movie) GenreSet() map[string]bool {
	set := make(map[string]bool)
	for _, g := range strings.Split(m.Genres, ",") {
		g = strings.ToLower(strings.TrimSpace(g))
		if g != "" {
			set[g] = true
		}
	}
	return set
}

// Store is the single source of truth for movie data. It is loaded once at
// startup and read-only afterwards, so it is safe to share across requests.
type Store struct {
	path string

	loaded         bool
	movies         []Movie
	byID           map[int64]int
	hasVoteAverage bool
}

// NewStore creates a store backed by the CSV dataset at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the dataset into memory and validates its schema. Call once at
// startup; all accessors fail with ErrNotLoaded before then.
func (s *Store) Load() error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: movie dataset at %s", ErrNotFound, s.path)
		}
		return fmt.Errorf("failed to open movie dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("failed to read dataset header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &SchemaError{Missing: missing}
	}

	_, s.hasVoteAverage = cols["vote_average"]

	var movies []Movie
	byID := make(map[int64]int)
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed row must fail the whole load; truncating the
			// catalog here would silently serve partial data.
			return fmt.Errorf("failed to read dataset row: %w", err)
		}
		line++

		m, err := parseMovie(record, cols, s.hasVoteAverage)
		if err != nil {
			return fmt.Errorf("bad row at line %d: %w", line, err)
		}
		if _, dup := byID[m.ID]; dup {
			return fmt.Errorf("duplicate movie_id %d at line %d", m.ID, line)
		}
		byID[m.ID] = len(movies)
		movies = append(movies, m)
	}

	s.movies = movies
	s.byID = byID
	s.loaded = true
	return nil
}

func parseMovie(record []string, cols map[string]int, hasVote bool) (Movie, error) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	id, err := strconv.ParseInt(field("movie_id"), 10, 64)
	if err != nil {
		return Movie{}, fmt.Errorf("invalid movie_id %q", field("movie_id"))
	}

	runtime, err := strconv.Atoi(field("runtime"))
	if err != nil {
		// Some exports carry fractional minutes.
		f, ferr := strconv.ParseFloat(field("runtime"), 64)
		if ferr != nil {
			return Movie{}, fmt.Errorf("invalid runtime %q", field("runtime"))
		}
		runtime = int(f)
	}

	year, _ := strconv.Atoi(field("release_year"))

	m := Movie{
		ID:            id,
		Title:         field("title"),
		EmbeddingText: field("embedding_text"),
		Genres:        field("genres"),
		Cast:          field("cast"),
		Keywords:      field("keywords"),
		Runtime:       runtime,
		Language:      field("language"),
		ReleaseYear:   year,
	}
	if hasVote {
		m.VoteAverage, _ = strconv.ParseFloat(field("vote_average"), 64)
	}
	return m, nil
}

// Loaded reports whether Load has completed.
func (s *Store) Loaded() bool {
	return s.loaded
}

// Count returns the number of movies in the catalog.
func (s *Store) Count() int {
	return len(s.movies)
}

// HasVoteAverage reports whether the optional popularity column is present.
func (s *Store) HasVoteAverage() bool {
	return s.hasVoteAverage
}

// All returns a copy of every movie in catalog order.
func (s *Store) All() ([]Movie, error) {
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	out := make([]Movie, len(s.movies))
	copy(out, s.movies)
	return out, nil
}

// Filter returns a copy of the rows passing every supplied predicate.
// Nil/zero parameters impose no constraint. Language matching is exact
// membership in the given set.
func (s *Store) Filter(languages []string, minRuntime, maxRuntime *int) ([]Movie, error) {
	if !s.loaded {
		return nil, ErrNotLoaded
	}

	langSet := make(map[string]bool, len(languages))
	for _, l := range languages {
		langSet[strings.ToLower(strings.TrimSpace(l))] = true
	}

	var out []Movie
	for _, m := range s.movies {
		if len(langSet) > 0 && !langSet[strings.ToLower(m.Language)] {
			continue
		}
		if minRuntime != nil && m.Runtime < *minRuntime {
			continue
		}
		if maxRuntime != nil && m.Runtime > *maxRuntime {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// GetByID fetches a single movie by its catalog ID.
func (s *Store) GetByID(id int64) (Movie, error) {
	if !s.loaded {
		return Movie{}, ErrNotLoaded
	}
	i, ok := s.byID[id]
	if !ok {
		return Movie{}, fmt.Errorf("%w: movie with id %d", ErrNotFound, id)
	}
	return s.movies[i], nil
}
