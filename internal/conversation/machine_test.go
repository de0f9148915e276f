package conversation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-ai/movie-recommender/internal/enrich"
	"github.com/nova-ai/movie-recommender/internal/interpret"
	"github.com/nova-ai/movie-recommender/pkg/logger"
)

type stubMood struct {
	insight *enrich.MoodInsight
	err     error
}

func (s *stubMood) InferMood(ctx context.Context, text string) (*enrich.MoodInsight, error) {
	return s.insight, s.err
}

type stubMovieInfo struct {
	info *enrich.MovieInfo
	err  error
}

func (s *stubMovieInfo) ExtractMovieInfo(ctx context.Context, text string) (*enrich.MovieInfo, error) {
	return s.info, s.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error")
	require.NoError(t, err)
	return log
}

func TestAdvanceWalksAllSteps(t *testing.T) {
	mood := &stubMood{insight: &enrich.MoodInsight{
		ResponseText: "Since you are in a mood to relax, comedies fit well.",
		Genres:       []string{"comedy", "romance"},
	}}
	m := NewMachine(mood, &stubMovieInfo{}, testLogger(t))

	ctx := context.Background()
	s := NewState()
	assert.Equal(t, StepAskMood, s.Step)

	require.NoError(t, m.Advance(ctx, s, "feeling cheerful today"))
	assert.Equal(t, StepMoodResponse, s.Step)
	assert.Equal(t, []string{"comedy", "romance"}, s.SuggestedGenres)

	require.NoError(t, m.Advance(ctx, s, "no"))
	assert.Equal(t, StepAskLanguage, s.Step)
	assert.Nil(t, s.SelectedGenres)

	require.NoError(t, m.Advance(ctx, s, "english"))
	assert.Equal(t, StepSimilarMovies, s.Step)
	assert.Equal(t, []string{"english"}, s.Languages)

	require.NoError(t, m.Advance(ctx, s, "a heist inside dreams"))
	assert.Equal(t, StepAskRuntime, s.Step)
	assert.Equal(t, "a heist inside dreams", s.MovieDescription)

	require.NoError(t, m.Advance(ctx, s, "under 2 hours"))
	assert.Equal(t, StepDone, s.Step)
	assert.True(t, s.Complete)
	require.NotNil(t, s.Runtime)
	assert.Equal(t, interpret.ConstraintMax, s.Runtime.Kind)
	assert.Equal(t, 120, s.Runtime.Minutes)
}

func TestAdvanceEmptyInputDoesNotTransition(t *testing.T) {
	m := NewMachine(nil, nil, testLogger(t))
	s := NewState()

	err := m.Advance(context.Background(), s, "   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, StepAskMood, s.Step)
}

func TestAdvanceAtTerminalStepIsNoOp(t *testing.T) {
	m := NewMachine(nil, nil, testLogger(t))
	s := NewState()
	s.Step = StepDone
	s.Complete = true

	require.NoError(t, m.Advance(context.Background(), s, "anything"))
	assert.Equal(t, StepDone, s.Step)
}

func TestAdvanceGenreOverride(t *testing.T) {
	mood := &stubMood{insight: &enrich.MoodInsight{Genres: []string{"drama"}}}
	m := NewMachine(mood, nil, testLogger(t))

	ctx := context.Background()
	s := NewState()
	require.NoError(t, m.Advance(ctx, s, "feeling thoughtful"))

	require.NoError(t, m.Advance(ctx, s, "action and thriller"))
	assert.Equal(t, []string{"action", "thriller"}, s.SelectedGenres)
	assert.Equal(t, []string{"drama"}, s.SuggestedGenres)
}

func TestAdvanceMoodProviderFailureDegrades(t *testing.T) {
	mood := &stubMood{err: context.DeadlineExceeded}
	m := NewMachine(mood, nil, testLogger(t))

	s := NewState()
	require.NoError(t, m.Advance(context.Background(), s, "I want action"))
	assert.Equal(t, StepMoodResponse, s.Step)
	assert.Nil(t, s.SuggestedGenres)
	assert.Equal(t, []string{"action"}, s.SelectedGenres)
}

func TestAdvanceMovieInfoEnrichesDescription(t *testing.T) {
	info := &stubMovieInfo{info: &enrich.MovieInfo{
		Title:  "Inception",
		Themes: []string{"dreams", "heist"},
		Plot:   "a thief steals secrets through dream-sharing",
	}}
	m := NewMachine(nil, info, testLogger(t))

	ctx := context.Background()
	s := NewState()
	s.Step = StepSimilarMovies

	require.NoError(t, m.Advance(ctx, s, "that movie about dreams"))
	assert.Equal(t, "a thief steals secrets through dream-sharing, dreams, heist", s.MovieDescription)
}

func TestNextQuestionPerStep(t *testing.T) {
	m := NewMachine(nil, nil, testLogger(t))

	s := NewState()
	assert.Contains(t, m.NextQuestion(s), "mood")

	s.Step = StepMoodResponse
	s.SuggestedGenres = []string{"comedy", "romance"}
	q := m.NextQuestion(s)
	assert.Contains(t, q, "comedy, romance")
	assert.Contains(t, q, "type 'no'")

	s.Step = StepMoodResponse
	s.MoodResponseText = "Since you are in a mood to relax..."
	assert.Contains(t, m.NextQuestion(s), "Since you are in a mood to relax...")

	s.Step = StepAskLanguage
	assert.Contains(t, m.NextQuestion(s), "language")

	s.Step = StepSimilarMovies
	assert.Contains(t, m.NextQuestion(s), "similar movie")

	s.Step = StepAskRuntime
	assert.Contains(t, m.NextQuestion(s), "runtime")

	s.Step = StepDone
	assert.Empty(t, m.NextQuestion(s))
}

func TestStepWireNames(t *testing.T) {
	names := map[Step]string{
		StepAskMood:       "ask_mood",
		StepMoodResponse:  "print_mood_response",
		StepAskLanguage:   "ask_language",
		StepSimilarMovies: "similar_movies",
		StepAskRuntime:    "ask_runtime",
		StepDone:          "runtime_done",
	}
	for step, want := range names {
		assert.Equal(t, want, step.String())
	}
}
