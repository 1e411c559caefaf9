package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"sunhex/internal/platform/kafka"
)

// LogPublisher writes events as structured log lines.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) error {
	p.logger.InfoContext(ctx, "audit",
		"event_id", e.ID.String(),
		"action", string(e.Action),
		"outcome", e.Outcome,
		"fingerprint", e.Fingerprint,
		"country_code", e.CountryCode,
		"request_id", e.RequestID,
		"client", e.Client,
		"timestamp", e.Timestamp,
	)
	return nil
}

// Producer is the slice of the Kafka producer the publisher needs.
type Producer interface {
	Enqueue(msg *kafka.Message) error
}

// KafkaPublisher sends events as JSON records keyed by fingerprint, so all
// events for one token land on the same partition.
type KafkaPublisher struct {
	producer Producer
	topic    string
}

func NewKafkaPublisher(producer Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(_ context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	key := e.Fingerprint
	if key == "" {
		key = e.ID.String()
	}

	msg := &kafka.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: value,
		Headers: map[string]string{
			"event_id": e.ID.String(),
			"action":   string(e.Action),
		},
	}
	if err := p.producer.Enqueue(msg); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

var (
	_ Publisher = (*LogPublisher)(nil)
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = NoopPublisher{}
)
