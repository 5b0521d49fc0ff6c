// Package submission talks to the submission service: it publishes validation
// events and looks up the organisation file of a submission.
package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/JonMunkholm/regvalidate/internal/event"
	"github.com/JonMunkholm/regvalidate/internal/logging"
)

const publishAttempts = 3

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes submission events to a topic, keyed by submission id
// so events of one submission stay ordered.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher creates a publisher for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher: no brokers configured")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka publisher: topic is required")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	return &KafkaPublisher{writer: w, topic: topic}, nil
}

// Publish sends ev. It retries a few times before giving up; the caller must
// treat a returned error as fatal for the message.
func (p *KafkaPublisher) Publish(ctx context.Context, ev event.SubmissionEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode submission event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.SubmissionID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
			{Key: "event_id", Value: []byte(ev.ID.String())},
		},
		Time: ev.CreatedAt,
	}

	logger := logging.FromContext(ctx)
	var lastErr error
	for attempt := range publishAttempts {
		lastErr = p.writer.WriteMessages(ctx, msg)
		if lastErr == nil {
			logger.Info("submission event published",
				"topic", p.topic, "event_type", ev.Type, "event_id", ev.ID, "is_valid", ev.IsValid)
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("publish submission event: %w", ctx.Err())
		}
		logger.Warn("publish submission event failed, retrying",
			"attempt", attempt+1, "max_attempts", publishAttempts, "error", lastErr)
		if attempt < publishAttempts-1 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("publish submission event: %w", ctx.Err())
			case <-time.After(100 * time.Millisecond):
			}
		}
	}
	return fmt.Errorf("publish submission event after %d attempts: %w", publishAttempts, lastErr)
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
