// Package service provides business logic for the movie chat service.
package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nova-ai/movie-recommender/internal/conversation"
	"github.com/nova-ai/movie-recommender/internal/events"
	"github.com/nova-ai/movie-recommender/internal/interpret"
	"github.com/nova-ai/movie-recommender/internal/recommender"
	"github.com/nova-ai/movie-recommender/pkg/logger"
	"github.com/nova-ai/movie-recommender/pkg/metrics"
)

const (
	replyInvalidInput = "Please provide a valid response."
	replyGoodbye      = "Goodbye! Type something to start a new conversation."
	replyComplete     = "Here are some movies you might enjoy! Type 'exit' to reset the chat."
	replyNoResults    = "I couldn't find any movies matching all of your preferences. Type 'exit' to start over."
	replyNoQuery      = "I couldn't build a search from our conversation. Let's start over - what's your mood today?"
)

// TurnResult is the outcome of one chat turn.
type TurnResult struct {
	Reply           string                       `json:"reply"`
	Recommendations []recommender.Recommendation `json:"recommendations"`
	Done            bool                         `json:"done"`
	Exited          bool                         `json:"exited"`
}

// ChatService drives one conversation at a time through the dialogue state
// machine and hands the completed profile to the recommendation engine. The
// reference design runs a single active conversation per service instance;
// the mutex serializes turns rather than isolating users.
type ChatService struct {
	machine   *conversation.Machine
	engine    *recommender.Engine
	publisher *events.Publisher
	logger    *logger.Logger

	recommendTimeout time.Duration

	mu               sync.Mutex
	state            *conversation.State
	conversationID   string
	waitingForAnswer bool
}

// NewChatService creates a chat service with a fresh conversation.
func NewChatService(
	machine *conversation.Machine,
	engine *recommender.Engine,
	publisher *events.Publisher,
	recommendTimeout time.Duration,
	log *logger.Logger,
) *ChatService {
	if recommendTimeout <= 0 {
		recommendTimeout = 30 * time.Second
	}
	return &ChatService{
		machine:          machine,
		engine:           engine,
		publisher:        publisher,
		logger:           log,
		recommendTimeout: recommendTimeout,
		state:            conversation.NewState(),
		conversationID:   uuid.Must(uuid.NewV7()).String(),
	}
}

// HandleMessage processes exactly one turn, keeping the question → answer →
// transition order: the first call (and the call after each consumed answer)
// emits the next question without consuming input.
func (s *ChatService) HandleMessage(ctx context.Context, input string) *TurnResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Conversation just started, or the last turn consumed an answer:
	// ask the next question.
	if !s.waitingForAnswer {
		question := s.machine.NextQuestion(s.state)
		s.waitingForAnswer = true
		return s.emit(ctx, &TurnResult{Reply: question})
	}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &TurnResult{Reply: replyInvalidInput}
	}

	// The global exit vocabulary resets unconditionally from any state.
	if interpret.ExitWords[strings.ToLower(trimmed)] {
		s.reset("exit")
		return &TurnResult{Reply: replyGoodbye, Exited: true}
	}

	if err := s.machine.Advance(ctx, s.state, input); err != nil {
		if errors.Is(err, conversation.ErrEmptyInput) {
			return &TurnResult{Reply: replyInvalidInput}
		}
		s.logger.Error("failed to advance conversation")
		return &TurnResult{Reply: replyInvalidInput}
	}
	s.waitingForAnswer = false

	if s.state.Complete {
		return s.completeConversation(ctx)
	}

	question := s.machine.NextQuestion(s.state)
	s.waitingForAnswer = true
	return s.emit(ctx, &TurnResult{Reply: question})
}

// Reset abandons the current conversation and starts fresh.
func (s *ChatService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset("manual")
}

// completeConversation projects the finished state into a profile, runs the
// engine, and resets for the next conversation.
func (s *ChatService) completeConversation(ctx context.Context) *TurnResult {
	profile := conversation.BuildProfile(s.state)
	conversationID := s.conversationID

	recommendCtx, cancel := context.WithTimeout(ctx, s.recommendTimeout)
	defer cancel()

	recs, err := s.engine.Recommend(recommendCtx, profile)
	if err != nil {
		if errors.Is(err, recommender.ErrMissingQuery) {
			// Should be unreachable through the normal dialogue flow; the
			// similar-movies step always captures text.
			s.reset("no_query")
			return &TurnResult{Reply: replyNoQuery}
		}
		s.logger.Error("recommendation failed")
		s.reset("error")
		return &TurnResult{Reply: replyNoResults, Done: true}
	}

	s.publisher.PublishRecommendation(ctx, &events.RecommendationEvent{
		ConversationID: conversationID,
		Profile:        profile,
		ResultCount:    len(recs),
		CreatedAt:      time.Now(),
	})

	s.reset("complete")

	if len(recs) == 0 {
		return &TurnResult{Reply: replyNoResults, Done: true}
	}
	return &TurnResult{
		Reply:           replyComplete,
		Recommendations: recs,
		Done:            true,
	}
}

func (s *ChatService) emit(ctx context.Context, result *TurnResult) *TurnResult {
	s.publisher.PublishTurn(ctx, &events.TurnEvent{
		ConversationID: s.conversationID,
		Step:           s.state.Step.String(),
		Reply:          result.Reply,
		CreatedAt:      time.Now(),
	})
	return result
}

// reset replaces the conversation state with a fresh instance.
func (s *ChatService) reset(reason string) {
	s.state = conversation.NewState()
	s.conversationID = uuid.Must(uuid.NewV7()).String()
	s.waitingForAnswer = false
	metrics.ChatResetsTotal.WithLabelValues(reason).Inc()
}
