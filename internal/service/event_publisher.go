package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/TusharSh06/Techgather/pkg/logger"
)

const (
	// TopicRegistration carries attendee lifecycle events
	TopicRegistration = "registration.events"

	// TopicPayment carries payment lifecycle events
	TopicPayment = "payment.events"
)

// DomainEvent is the message published for registration and payment
// lifecycle changes
type DomainEvent struct {
	EventType  string    `json:"event_type"`
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id,omitempty"`
	TicketType string    `json:"ticket_type,omitempty"`
	PaymentID  string    `json:"payment_id,omitempty"`
	Amount     int64     `json:"amount,omitempty"`
	Currency   string    `json:"currency,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventPublisher publishes domain events for downstream consumers.
// Publishing is best-effort: callers log failures but never fail the
// user-facing operation on a publish error.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event *DomainEvent) error
	Close()
}

// KafkaPublisher publishes domain events to Kafka
type KafkaPublisher struct {
	client *kgo.Client
}

// KafkaPublisherConfig holds configuration for KafkaPublisher
type KafkaPublisherConfig struct {
	Brokers  []string
	ClientID string
}

// NewKafkaPublisher creates a Kafka publisher and verifies the connection
func NewKafkaPublisher(ctx context.Context, cfg *KafkaPublisherConfig) (*KafkaPublisher, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka client: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Kafka: %w", err)
	}

	return &KafkaPublisher{client: client}, nil
}

// Publish sends the event to the topic, keyed by event ID so records for one
// event stay ordered within a partition
func (p *KafkaPublisher) Publish(ctx context.Context, topic string, event *DomainEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(event.EventID),
		Value: payload,
	}

	result := p.client.ProduceSync(ctx, record)
	if err := result.FirstErr(); err != nil {
		return fmt.Errorf("failed to produce record: %w", err)
	}

	logger.Get().Debug("published domain event",
		zap.String("topic", topic),
		zap.String("event_type", event.EventType),
		zap.String("event_id", event.EventID),
	)
	return nil
}

// Close flushes and closes the Kafka client
func (p *KafkaPublisher) Close() {
	p.client.Close()
}

// NoopPublisher discards all events. Used when Kafka is not configured and
// in tests.
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that discards events
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish discards the event
func (p *NoopPublisher) Publish(ctx context.Context, topic string, event *DomainEvent) error {
	return nil
}

// Close is a no-op
func (p *NoopPublisher) Close() {}
