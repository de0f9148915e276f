// Package events publishes conversation and recommendation events to NATS
// JetStream for downstream analytics. Publishing is best-effort and fully
// optional: a nil Publisher is a no-op.
package events

import (
	"time"

	"github.com/nova-ai/movie-recommender/internal/conversation"
)

// TurnEvent records one processed conversation turn.
type TurnEvent struct {
	ConversationID string    `json:"conversation_id"`
	Step           string    `json:"step"`
	Reply          string    `json:"reply"`
	CreatedAt      time.Time `json:"created_at"`
}

// RecommendationEvent records one completed recommendation cycle.
type RecommendationEvent struct {
	ConversationID string               `json:"conversation_id"`
	Profile        conversation.Profile `json:"profile"`
	ResultCount    int                  `json:"result_count"`
	CreatedAt      time.Time            `json:"created_at"`
}
