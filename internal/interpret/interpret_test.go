package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectYesNo(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  YesNo
	}{
		{"exact yes", "yes", Yes},
		{"exact yes uppercase", "YES", Yes},
		{"exact yeah", "yeah", Yes},
		{"exact yah", "yah", Yes},
		{"exact okay with whitespace", "  okay  ", Yes},
		{"fuzzy yes", "yess", Yes},
		{"exact no", "no", No},
		{"exact nope", "nope", No},
		{"exact not really", "not really", No},
		{"fuzzy no", "nopes", No},
		{"off vocabulary", "banana", Ambiguous},
		{"empty", "", Ambiguous},
		{"whitespace only", "   ", Ambiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectYesNo(tt.input))
		})
	}
}

func TestExtractGenres(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"two genres in a sentence", "I love action and comedy movies", []string{"action", "comedy"}},
		{"single genre", "horror", []string{"horror"}},
		{"misspelled genre", "thriler", []string{"thriller"}},
		{"deduplicated", "comedy, comedy and more comedy", []string{"comedy"}},
		{"off vocabulary", "something cheerful", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractGenres(tt.input))
		})
	}
}

func TestExtractGenres_Order(t *testing.T) {
	// First-hit order is preserved regardless of vocabulary order.
	got := ExtractGenres("drama then action")
	require.Equal(t, []string{"drama", "action"}, got)
}

func TestExtractLanguages(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single language", "hindi please", []string{"hindi"}},
		{"two languages", "english or korean", []string{"english", "korean"}},
		{"misspelled language", "japansese", []string{"japanese"}},
		{"below threshold", "norwegian", nil},
		{"negative answer short-circuits", "no", nil},
		{"negative answer variant", "nope", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractLanguages(tt.input))
		})
	}
}

func TestExtractRuntime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *RuntimeConstraint
	}{
		{"under with unit", "under 90 mins", &RuntimeConstraint{Kind: ConstraintMax, Minutes: 90}},
		{"less than hours", "less than 2 hours", &RuntimeConstraint{Kind: ConstraintMax, Minutes: 120}},
		{"symbol max", "< 2 hours", &RuntimeConstraint{Kind: ConstraintMax, Minutes: 120}},
		{"symbol min", "> 100 mins", &RuntimeConstraint{Kind: ConstraintMin, Minutes: 100}},
		{"at least", "at least 2 hours", &RuntimeConstraint{Kind: ConstraintMin, Minutes: 120}},
		{"hours and minutes exact", "1h 30m", &RuntimeConstraint{Kind: ConstraintExact, Minutes: 90}},
		{"hours only exact", "2 hours", &RuntimeConstraint{Kind: ConstraintExact, Minutes: 120}},
		{"minutes only exact", "90 minutes", &RuntimeConstraint{Kind: ConstraintExact, Minutes: 90}},
		{"minimum keyword", "minimum 90 minutes", &RuntimeConstraint{Kind: ConstraintMin, Minutes: 90}},
		{"negative answer", "no", nil},
		{"no duration at all", "whatever works", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractRuntime(tt.input))
		})
	}
}

func TestTokenizeDropsStopwords(t *testing.T) {
	got := tokenize("I want to watch something like a comedy")
	assert.Equal(t, []string{"comedy"}, got)
}
