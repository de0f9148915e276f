package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	t.Run("clean object", func(t *testing.T) {
		got, err := extractJSON[MoodInsight](`{"response_text": "Since you are relaxed...", "genres": ["comedy"]}`)
		require.NoError(t, err)
		assert.Equal(t, "Since you are relaxed...", got.ResponseText)
		assert.Equal(t, []string{"comedy"}, got.Genres)
	})

	t.Run("fenced markdown", func(t *testing.T) {
		raw := "```json\n{\"official_title\": \"Inception\", \"themes\": [\"dreams\"], \"plot\": \"a heist in dreams\"}\n```"
		got, err := extractJSON[MovieInfo](raw)
		require.NoError(t, err)
		assert.Equal(t, "Inception", got.Title)
		assert.Equal(t, "a heist in dreams", got.Plot)
	})

	t.Run("surrounding prose", func(t *testing.T) {
		raw := `Sure! Here is the result: {"response_text": "ok", "genres": []} Hope that helps.`
		got, err := extractJSON[MoodInsight](raw)
		require.NoError(t, err)
		assert.Equal(t, "ok", got.ResponseText)
	})

	t.Run("braces inside strings", func(t *testing.T) {
		raw := `{"response_text": "curly {braces} inside", "genres": ["drama"]}`
		got, err := extractJSON[MoodInsight](raw)
		require.NoError(t, err)
		assert.Equal(t, "curly {braces} inside", got.ResponseText)
	})

	t.Run("no object at all", func(t *testing.T) {
		_, err := extractJSON[MoodInsight]("I could not determine anything.")
		assert.ErrorIs(t, err, ErrInvalidOutput)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := extractJSON[MoodInsight](`{"response_text": }`)
		assert.ErrorIs(t, err, ErrInvalidOutput)
	})
}

func TestMovieInfoUsable(t *testing.T) {
	assert.False(t, (*MovieInfo)(nil).Usable())
	assert.False(t, (&MovieInfo{Title: "Inception"}).Usable())
	assert.True(t, (&MovieInfo{Plot: "a heist"}).Usable())
	assert.True(t, (&MovieInfo{Themes: []string{"dreams"}}).Usable())
}
