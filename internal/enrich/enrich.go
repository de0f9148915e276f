// Package enrich wraps unreliable LLM calls that turn raw user text into
// best-effort structured guesses. Providers never panic past their boundary;
// any failure surfaces as a no-guess result the caller degrades around.
package enrich

import (
	"context"
)

// MoodInsight is the structured guess for a mood utterance: a customized
// reply plus candidate genres inferred from the mood.
type MoodInsight struct {
	ResponseText string   `json:"response_text"`
	Genres       []string `json:"genres"`
}

// MovieInfo is the structured guess for a plot/title utterance.
type MovieInfo struct {
	Title  string   `json:"official_title"`
	Themes []string `json:"themes"`
	Plot   string   `json:"plot"`
}

// Usable reports whether the extraction carries any signal worth using over
// the raw text.
func (m *MovieInfo) Usable() bool {
	return m != nil && (m.Plot != "" || len(m.Themes) > 0)
}

// MoodProvider infers mood framing and candidate genres from free text.
// A nil insight with nil error means "no guess".
type MoodProvider interface {
	InferMood(ctx context.Context, text string) (*MoodInsight, error)
}

// MovieInfoProvider extracts a movie title, themes, and plot keywords from
// free text. A nil info with nil error means "no guess".
type MovieInfoProvider interface {
	ExtractMovieInfo(ctx context.Context, text string) (*MovieInfo, error)
}
