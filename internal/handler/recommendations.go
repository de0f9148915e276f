package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nova-ai/movie-recommender/internal/conversation"
	"github.com/nova-ai/movie-recommender/internal/middleware"
	"github.com/nova-ai/movie-recommender/internal/recommender"
	"github.com/nova-ai/movie-recommender/pkg/logger"
)

// RecommendationHandler handles direct recommendation requests that bypass
// the conversation flow.
type RecommendationHandler struct {
	engine *recommender.Engine
	logger *logger.Logger
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(engine *recommender.Engine, log *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		engine: engine,
		logger: log,
	}
}

// recommendResponse is the body of a recommendation response.
type recommendResponse struct {
	Recommendations []recommender.Recommendation `json:"recommendations"`
	Count           int                          `json:"count"`
}

// Recommend handles POST /api/v1/recommendations
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var profile conversation.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateQueryText(profile.QueryText); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	recs, err := h.engine.Recommend(ctx, profile)
	if err != nil {
		if errors.Is(err, recommender.ErrMissingQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("recommendation failed")
		writeError(w, http.StatusInternalServerError, "failed to produce recommendations")
		return
	}

	// An empty list is a valid outcome: the hard filters excluded everything.
	if recs == nil {
		recs = []recommender.Recommendation{}
	}
	writeJSON(w, http.StatusOK, &recommendResponse{
		Recommendations: recs,
		Count:           len(recs),
	})
}
