package conversation

import (
	"github.com/nova-ai/movie-recommender/internal/interpret"
)

// Profile is the flat request shape the recommendation engine consumes.
// It is a pure projection of a completed conversation and is never mutated
// after construction.
type Profile struct {
	QueryText string                       `json:"query_text"`
	Genres    []string                     `json:"genres,omitempty"`
	Languages []string                     `json:"languages,omitempty"`
	Runtime   *interpret.RuntimeConstraint `json:"runtime,omitempty"`
}

// BuildProfile projects conversation state into an engine profile.
// An explicit genre selection always wins over suggestions; the two are
// never merged.
func BuildProfile(s *State) Profile {
	genres := s.SelectedGenres
	if genres == nil {
		genres = s.SuggestedGenres
	}

	return Profile{
		QueryText: s.MovieDescription,
		Genres:    genres,
		Languages: s.Languages,
		Runtime:   s.Runtime,
	}
}
