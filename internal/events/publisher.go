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
)

// EventPublisher defines the interface for publishing session events
type EventPublisher interface {
	PublishSessionEvent(ctx context.Context, event *SessionEvent) error
	Close() error
}

// WatermillEventPublisher publishes through any watermill message.Publisher
type WatermillEventPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topicName string
}

// PublisherConfig holds configuration for the event publisher
type PublisherConfig struct {
	KafkaBrokers []string
	TopicName    string
	Logger       *slog.Logger
}

// NewKafkaEventPublisher creates a new Kafka-based event publisher using Watermill
func NewKafkaEventPublisher(config PublisherConfig) (*WatermillEventPublisher, error) {
	logger := watermill.NewSlogLogger(config.Logger)

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   config.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return NewWatermillEventPublisher(publisher, config.TopicName, config.Logger), nil
}

// NewChannelEventPublisher creates an in-process publisher backed by a
// watermill Go channel. The returned GoChannel can be used to subscribe.
func NewChannelEventPublisher(topicName string, logger *slog.Logger) (*WatermillEventPublisher, *gochannel.GoChannel) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NewSlogLogger(logger))

	return NewWatermillEventPublisher(pubSub, topicName, logger), pubSub
}

func NewWatermillEventPublisher(publisher message.Publisher, topicName string, logger *slog.Logger) *WatermillEventPublisher {
	return &WatermillEventPublisher{
		publisher: publisher,
		logger:    logger,
		topicName: topicName,
	}
}

// PublishSessionEvent publishes a session event to the configured topic
func (p *WatermillEventPublisher) PublishSessionEvent(ctx context.Context, event *SessionEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}

	msg := message.NewMessage(event.ID, eventBytes)
	msg.SetContext(ctx)

	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("version", event.Version)
	msg.Metadata.Set("user_id", event.UserID)
	msg.Metadata.Set("exam_id", event.ExamID)
	msg.Metadata.Set("timestamp", event.Timestamp.Format(time.RFC3339))

	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		p.logger.Error("Failed to publish session event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish session event: %w", err)
	}

	p.logger.Info("Published session event",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", p.topicName)

	return nil
}

// Close closes the publisher and releases resources
func (p *WatermillEventPublisher) Close() error {
	return p.publisher.Close()
}

// MockEventPublisher is a mock implementation for testing
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []SessionEvent
	Logger *slog.Logger
}

// NewMockEventPublisher creates a new mock event publisher
func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{
		Events: make([]SessionEvent, 0),
		Logger: logger,
	}
}

// PublishSessionEvent stores the event in memory (for testing)
func (m *MockEventPublisher) PublishSessionEvent(ctx context.Context, event *SessionEvent) error {
	m.mu.Lock()
	m.Events = append(m.Events, *event)
	m.mu.Unlock()

	m.Logger.Info("Mock: Published session event",
		"event_id", event.ID,
		"event_type", event.Type)
	return nil
}

// Close is a no-op for the mock publisher
func (m *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns all published events (for testing)
func (m *MockEventPublisher) GetPublishedEvents() []SessionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SessionEvent(nil), m.Events...)
}

// EventsOfType returns the published events with the given type
func (m *MockEventPublisher) EventsOfType(eventType EventType) []SessionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []SessionEvent
	for _, e := range m.Events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// ClearEvents clears all published events (for testing)
func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = make([]SessionEvent, 0)
}
