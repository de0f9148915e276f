package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/nova-ai/movie-recommender/internal/llm"
	"github.com/nova-ai/movie-recommender/pkg/logger"
	"github.com/nova-ai/movie-recommender/pkg/metrics"
)

const moodSystemPrompt = `You analyze a user's mood and suggest movie genres.
Respond with a single JSON object: {"response_text": string, "genres": [string]}.
response_text is a short customized reply ("Since you are in a mood to watch ...").
genres are standardized lowercase genre names. Use empty values when nothing fits.`

const movieInfoSystemPrompt = `You identify movies, web series, or TV shows mentioned in user text, even partially.
Respond with a single JSON object: {"official_title": string, "themes": [string], "plot": string}.
themes are 3-6 short keywords for the tone; plot is a short keyword-based plot summary.
Use empty values when nothing is identified.`

// LLMProvider implements MoodProvider and MovieInfoProvider over a
// completion client.
type LLMProvider struct {
	client llm.Client
	model  string
	logger *logger.Logger
}

// NewLLMProvider creates an enrichment provider backed by the given client.
// The model may be empty to use the client's default.
func NewLLMProvider(client llm.Client, model string, log *logger.Logger) *LLMProvider {
	return &LLMProvider{client: client, model: model, logger: log}
}

// InferMood asks the model for a mood framing and candidate genres.
func (p *LLMProvider) InferMood(ctx context.Context, text string) (*MoodInsight, error) {
	if p.client == nil || strings.TrimSpace(text) == "" {
		return nil, nil
	}

	raw, err := p.complete(ctx, moodSystemPrompt, fmt.Sprintf("Mood: %q", text))
	if err != nil {
		metrics.EnrichmentTotal.WithLabelValues("mood", "error").Inc()
		p.logger.Warn("mood enrichment failed")
		return nil, err
	}

	insight, err := extractJSON[MoodInsight](raw)
	if err != nil {
		metrics.EnrichmentTotal.WithLabelValues("mood", "unparseable").Inc()
		return nil, err
	}

	metrics.EnrichmentTotal.WithLabelValues("mood", "success").Inc()
	insight.Genres = lowercaseAll(insight.Genres)
	return &insight, nil
}

// ExtractMovieInfo asks the model to identify a movie title, themes, and a
// keyword plot summary in the text.
func (p *LLMProvider) ExtractMovieInfo(ctx context.Context, text string) (*MovieInfo, error) {
	if p.client == nil || strings.TrimSpace(text) == "" {
		return nil, nil
	}

	raw, err := p.complete(ctx, movieInfoSystemPrompt, fmt.Sprintf("USER TEXT: %q", text))
	if err != nil {
		metrics.EnrichmentTotal.WithLabelValues("movie_info", "error").Inc()
		p.logger.Warn("movie info enrichment failed")
		return nil, err
	}

	info, err := extractJSON[MovieInfo](raw)
	if err != nil {
		metrics.EnrichmentTotal.WithLabelValues("movie_info", "unparseable").Inc()
		return nil, err
	}

	metrics.EnrichmentTotal.WithLabelValues("movie_info", "success").Inc()
	return &info, nil
}

func (p *LLMProvider) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.Complete(ctx, &llm.CompletionRequest{
		Model:  p.model,
		System: system,
		Messages: []llm.ChatMessage{
			{Role: "user", Content: user},
		},
		MaxTokens: 512,
	})
	if err != nil {
		return "", err
	}
	metrics.RecordLLMTokens(resp.Model, resp.TokensIn, resp.TokensOut)
	return resp.Content, nil
}

func lowercaseAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
