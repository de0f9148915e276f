// Package conversation implements the turn-based dialogue state machine
// that collects a user's movie preferences, and the projection of the
// finished dialogue into an engine profile.
package conversation

import (
	"github.com/nova-ai/movie-recommender/internal/interpret"
)

// Step is a position in the fixed dialogue sequence. Each step emits one
// system prompt and consumes one user answer.
type Step int

const (
	StepAskMood Step = iota
	StepMoodResponse
	StepAskLanguage
	StepSimilarMovies
	StepAskRuntime
	StepDone
)

// String returns the step's wire name.
func (s Step) String() string {
	switch s {
	case StepAskMood:
		return "ask_mood"
	case StepMoodResponse:
		return "print_mood_response"
	case StepAskLanguage:
		return "ask_language"
	case StepSimilarMovies:
		return "similar_movies"
	case StepAskRuntime:
		return "ask_runtime"
	case StepDone:
		return "runtime_done"
	default:
		return "unknown"
	}
}

// State holds the signals accumulated over one conversation. It is owned by
// exactly one conversation and mutated once per valid turn; a fresh instance
// replaces it on exit or completion.
//
// SelectedGenres being nil means the user gave no usable explicit choice and
// the suggested genres stand; a non-nil value always overrides suggestions,
// never merges with them. Languages nil means no language constraint.
type State struct {
	Step Step

	SuggestedGenres  []string
	SelectedGenres   []string
	MoodResponseText string

	MovieDescription string
	Languages        []string
	Runtime          *interpret.RuntimeConstraint

	Complete bool
}

// NewState creates a fresh conversation state at the first step.
func NewState() *State {
	return &State{Step: StepAskMood}
}
