package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gurukul/internal/config"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
)

// Publisher defines an interface for publishing messages.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) (string, error)
}

// PubSubPublisher is an implementation of Publisher using Google Pub/Sub.
type PubSubPublisher struct {
	client *pubsub.Client
}

// NewPublisher creates a new PubSubPublisher using the GCP project from config.
func NewPublisher(ctx context.Context, cfg *config.Config) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &PubSubPublisher{client: client}, nil
}

// Publish sends the payload to the given Pub/Sub topic and returns the message ID.
func (p *PubSubPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	t := p.client.Topic(topic)
	result := t.Publish(ctx, &pubsub.Message{Data: payload})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish message to topic %s: %w", topic, err)
	}
	return id, nil
}

func (p *PubSubPublisher) Close() error {
	return p.client.Close()
}

// LogPublisher writes messages to the log; used when no GCP project is configured.
type LogPublisher struct {
	logger zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "LogPublisher").Logger()}
}

func (p *LogPublisher) Publish(_ context.Context, topic string, payload []byte) (string, error) {
	p.logger.Info().Str("topic", topic).RawJSON("payload", payload).Msg("Event")
	return "", nil
}

// Event is the envelope for domain events such as "enrollment.created".
type Event struct {
	Type       string            `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	Attributes map[string]string `json:"attributes"`
}

// Emitter publishes domain events to one topic. Failures are logged, never
// returned: the state change that triggered the event has already committed.
type Emitter struct {
	publisher Publisher
	topic     string
	logger    zerolog.Logger
}

func NewEmitter(publisher Publisher, topic string, logger zerolog.Logger) *Emitter {
	return &Emitter{
		publisher: publisher,
		topic:     topic,
		logger:    logger.With().Str("component", "EventEmitter").Logger(),
	}
}

func (e *Emitter) Emit(ctx context.Context, eventType string, attrs map[string]string) {
	if e == nil || e.publisher == nil {
		return
	}
	data, err := json.Marshal(Event{Type: eventType, OccurredAt: time.Now().UTC(), Attributes: attrs})
	if err != nil {
		e.logger.Error().Err(err).Str("type", eventType).Msg("Failed to marshal event")
		return
	}
	if _, err := e.publisher.Publish(ctx, e.topic, data); err != nil {
		e.logger.Error().Err(err).Str("type", eventType).Str("topic", e.topic).Msg("Failed to publish event")
	}
}
