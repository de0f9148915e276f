package interpret

import (
	"context"
	"strings"

	"github.com/nova-ai/movie-recommender/internal/enrich"
)

// ExtractPlotText enriches a free-text movie description through the
// movie-info provider. When the provider fails or returns nothing usable
// the original text survives unchanged; enrichment is an upgrade, never a
// gate.
func ExtractPlotText(ctx context.Context, text string, provider enrich.MovieInfoProvider) string {
	if strings.TrimSpace(text) == "" || provider == nil {
		return text
	}

	info, err := provider.ExtractMovieInfo(ctx, text)
	if err != nil || !info.Usable() {
		return text
	}

	parts := make([]string, 0, 2)
	if plot := strings.TrimSpace(info.Plot); plot != "" {
		parts = append(parts, plot)
	}
	if len(info.Themes) > 0 {
		parts = append(parts, strings.Join(info.Themes, ", "))
	}
	return strings.Join(parts, ", ")
}
