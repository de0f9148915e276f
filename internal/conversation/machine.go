package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nova-ai/movie-recommender/internal/enrich"
	"github.com/nova-ai/movie-recommender/internal/interpret"
	"github.com/nova-ai/movie-recommender/pkg/logger"
	"github.com/nova-ai/movie-recommender/pkg/metrics"
)

// ErrEmptyInput indicates a blank turn. The caller re-prompts; the state
// does not transition.
var ErrEmptyInput = errors.New("empty input")

// nextStep is the fixed transition table. The machine only ever moves
// forward through it; there is no path back to an earlier step.
var nextStep = map[Step]Step{
	StepAskMood:       StepMoodResponse,
	StepMoodResponse:  StepAskLanguage,
	StepAskLanguage:   StepSimilarMovies,
	StepSimilarMovies: StepAskRuntime,
	StepAskRuntime:    StepDone,
}

// Machine advances a conversation state one step per user turn. It owns no
// state itself and may be shared; the State carries everything mutable.
type Machine struct {
	mood      enrich.MoodProvider
	movieInfo enrich.MovieInfoProvider
	logger    *logger.Logger
}

// NewMachine creates a state machine with the given enrichment providers.
// Either provider may be nil; enrichment then degrades to raw extraction.
func NewMachine(mood enrich.MoodProvider, movieInfo enrich.MovieInfoProvider, log *logger.Logger) *Machine {
	return &Machine{mood: mood, movieInfo: movieInfo, logger: log}
}

// NextQuestion returns the system prompt for the state's current step, or
// "" once the machine is at its terminal step.
func (m *Machine) NextQuestion(s *State) string {
	switch s.Step {
	case StepAskMood:
		return "What's your mood today? I can recommend genres you might like."
	case StepMoodResponse:
		reply := s.MoodResponseText
		if reply == "" && len(s.SuggestedGenres) > 0 {
			reply = fmt.Sprintf("I think you might enjoy: %s.", strings.Join(s.SuggestedGenres, ", "))
		}
		if reply != "" {
			return reply + "\nEnter any other preferred genre, else type 'no'."
		}
		return "Enter any other preferred genre, else type 'no'."
	case StepAskLanguage:
		return "Please enter a preferred language if any, else type 'no'."
	case StepSimilarMovies:
		return "Please share a similar movie's name or plot description to help me understand your taste better:"
	case StepAskRuntime:
		return "Please enter a runtime constraint (e.g. < 2 hours) if any, else type 'no'."
	default:
		return ""
	}
}

// Advance consumes one user answer and performs exactly one transition.
// Blank input returns ErrEmptyInput and leaves the state untouched. At the
// terminal step Advance is a no-op; the caller is expected to reset.
func (m *Machine) Advance(ctx context.Context, s *State, input string) error {
	if strings.TrimSpace(input) == "" {
		return ErrEmptyInput
	}
	if s.Step == StepDone {
		return nil
	}

	metrics.ChatTurnsTotal.WithLabelValues(s.Step.String()).Inc()

	switch s.Step {
	case StepAskMood:
		m.applyMood(ctx, s, input)
	case StepMoodResponse:
		m.applyGenreOverride(s, input)
	case StepAskLanguage:
		m.applyLanguage(s, input)
	case StepSimilarMovies:
		s.MovieDescription = interpret.ExtractPlotText(ctx, input, m.movieInfo)
	case StepAskRuntime:
		m.applyRuntime(s, input)
	}

	s.Step = nextStep[s.Step]
	if s.Step == StepDone {
		s.Complete = true
	}
	return nil
}

// applyMood stores the LLM's suggested genres plus any genres explicitly
// extractable from the same utterance as a candidate selection.
func (m *Machine) applyMood(ctx context.Context, s *State, input string) {
	s.SelectedGenres = interpret.ExtractGenres(input)

	if m.mood == nil {
		return
	}
	insight, err := m.mood.InferMood(ctx, input)
	if err != nil || insight == nil {
		m.logger.Warn("mood inference unavailable, continuing without suggestions")
		return
	}
	s.SuggestedGenres = insight.Genres
	s.MoodResponseText = insight.ResponseText
}

// applyGenreOverride handles the "any other genre?" answer: "no" clears the
// explicit selection and falls back to the suggestions, anything else
// re-extracts and overwrites.
func (m *Machine) applyGenreOverride(s *State, input string) {
	if interpret.DetectYesNo(input) == interpret.No {
		s.SelectedGenres = nil
		return
	}
	s.SelectedGenres = interpret.ExtractGenres(input)
}

func (m *Machine) applyLanguage(s *State, input string) {
	if interpret.DetectYesNo(input) == interpret.No {
		s.Languages = nil
		return
	}
	s.Languages = interpret.ExtractLanguages(input)
}

func (m *Machine) applyRuntime(s *State, input string) {
	if interpret.DetectYesNo(input) == interpret.No {
		s.Runtime = nil
		return
	}
	s.Runtime = interpret.ExtractRuntime(input)
}
