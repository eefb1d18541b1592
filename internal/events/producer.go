package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Topics published by the application.
const (
	TopicUserEvents    = "user_events"
	TopicOrderEvents   = "order_events"
	TopicProductEvents = "product_events"
)

// Producer publishes domain events to Kafka. A nil Producer is valid and
// drops every event, so the broker stays optional.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer connects a producer to the given broker address.
func NewProducer(address string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(address),
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
	}
}

// Publish marshals the event and writes it to the topic. Callers treat
// failures as best-effort and only log them.
func (p *Producer) Publish(ctx context.Context, topic, key string, event interface{}) error {
	if p == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal failed: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("events: write failed: %w", err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
