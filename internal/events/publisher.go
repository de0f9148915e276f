package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/nova-ai/movie-recommender/pkg/logger"
)

const (
	// StreamName is the name of the chat events stream.
	StreamName = "CHAT_EVENTS"

	// SubjectPrefix is the prefix for all chat event subjects.
	SubjectPrefix = "chat"
)

// Config holds NATS connection settings.
type Config struct {
	URL   string
	Token string
}

// Publisher publishes chat events to JetStream.
type Publisher struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	logger *logger.Logger
}

// Connect establishes a NATS connection and JetStream context. Returns nil
// (a no-op publisher) when no URL is configured.
func Connect(ctx context.Context, cfg Config, log *logger.Logger) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts := []nats.Option{
		nats.Name("movie-recommender"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
	}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &Publisher{conn: conn, js: js, logger: log}, nil
}

// EnsureStream ensures the chat events stream exists.
func (p *Publisher) EnsureStream(ctx context.Context) error {
	if p == nil {
		return nil
	}

	_, err := p.js.Stream(ctx, StreamName)
	if err == nil {
		return nil // Stream already exists
	}

	_, err = p.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Description: "Conversation turns and recommendation cycles",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// IsConnected reports whether the NATS connection is up.
func (p *Publisher) IsConnected() bool {
	return p != nil && p.conn.IsConnected()
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.conn.Close()
}

// PublishTurn publishes a turn event. Failures are logged, never returned
// to the request path.
func (p *Publisher) PublishTurn(ctx context.Context, event *TurnEvent) {
	if p == nil {
		return
	}
	subject := fmt.Sprintf("%s.%s.turn", SubjectPrefix, event.ConversationID)
	p.publish(ctx, subject, event)
}

// PublishRecommendation publishes a recommendation cycle event.
func (p *Publisher) PublishRecommendation(ctx context.Context, event *RecommendationEvent) {
	if p == nil {
		return
	}
	subject := fmt.Sprintf("%s.%s.recommendation", SubjectPrefix, event.ConversationID)
	p.publish(ctx, subject, event)
}

func (p *Publisher) publish(ctx context.Context, subject string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("failed to marshal event")
		return
	}
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		p.logger.Warn("failed to publish event")
	}
}
