package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"

	"marketplace-service/internal/messaging"
)

// Publisher writes events to Kafka through one long-lived asynchronous writer.
// Delivery failures are logged from the writer's completion callback.
type Publisher struct {
	writer      *kafkaGo.Writer
	topicPrefix string
}

// NewPublisher creates a publisher for brokers. Topics are prefixed with topicPrefix when it is set.
func NewPublisher(brokers []string, topicPrefix string) *Publisher {
	w := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(brokers...),
		Balancer:               &kafkaGo.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafkaGo.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafkaGo.Message, err error) {
			if err != nil {
				slog.Error("Failed to deliver events", "count", len(messages), "err", err)
			}
		},
	}
	return &Publisher{writer: w, topicPrefix: topicPrefix}
}

var _ messaging.Publisher = (*Publisher)(nil)

func (p *Publisher) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	msg, err := newMessage(p.topic(topic), key, event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Close flushes pending messages and releases the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) topic(name string) string {
	if p.topicPrefix == "" {
		return name
	}
	return p.topicPrefix + "." + name
}

func newMessage(topic, key string, event any) (kafkaGo.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return kafkaGo.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
		Headers: []kafkaGo.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}, nil
}
