// Package events publishes session lifecycle events on a watermill bus.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// TopicSessions carries all session lifecycle events.
const TopicSessions = "interview.sessions"

type EventType string

const (
	SessionStarted   EventType = "session.started"
	AnswerSubmitted  EventType = "session.answer_submitted"
	SessionCompleted EventType = "session.completed"
	SessionDeleted   EventType = "session.deleted"
)

// SessionEvent is the payload published for every session state change.
type SessionEvent struct {
	Type       EventType      `json:"type"`
	SessionID  uint           `json:"session_id"`
	UserID     uint           `json:"user_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// EventPublisher publishes session events. Implementations must be safe for
// concurrent use.
type EventPublisher interface {
	PublishSessionEvent(ctx context.Context, event SessionEvent) error
	Close() error
}

// ===== WATERMILL PUBLISHER =====

type watermillPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

// NewGoChannelBus creates an in-process pub/sub bus. The returned subscriber
// feeds the realtime hub; the publisher is handed to the services.
func NewGoChannelBus(logger *slog.Logger) (EventPublisher, message.Subscriber) {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)
	return &watermillPublisher{publisher: pubSub, logger: logger}, pubSub
}

// NewKafkaPublisher creates a Kafka-backed publisher for deployments where
// session events must leave the process.
func NewKafkaPublisher(brokers []string, logger *slog.Logger) (EventPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	return &watermillPublisher{publisher: publisher, logger: logger}, nil
}

// NewKafkaSubscriber creates a Kafka-backed subscriber so in-process
// consumers (the realtime hub) keep receiving session events when publishing
// goes through Kafka.
func NewKafkaSubscriber(brokers []string, consumerGroup string, logger *slog.Logger) (message.Subscriber, error) {
	subscriber, err := kafka.NewSubscriber(
		kafka.SubscriberConfig{
			Brokers:       brokers,
			Unmarshaler:   kafka.DefaultMarshaler{},
			ConsumerGroup: consumerGroup,
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka subscriber: %w", err)
	}
	return subscriber, nil
}

func (p *watermillPublisher) PublishSessionEvent(ctx context.Context, event SessionEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.SetContext(ctx)

	if err := p.publisher.Publish(TopicSessions, msg); err != nil {
		return fmt.Errorf("failed to publish session event: %w", err)
	}

	p.logger.Debug("published session event",
		"type", event.Type,
		"session_id", event.SessionID)
	return nil
}

func (p *watermillPublisher) Close() error {
	return p.publisher.Close()
}

// ===== MOCK PUBLISHER =====

// MockEventPublisher records events in memory for tests.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []SessionEvent
	logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (m *MockEventPublisher) PublishSessionEvent(_ context.Context, event SessionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockEventPublisher) Close() error { return nil }

// Events returns a copy of the recorded events.
func (m *MockEventPublisher) Events() []SessionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SessionEvent, len(m.events))
	copy(out, m.events)
	return out
}
