// Package queue consumes registration messages from Kafka.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/JonMunkholm/regvalidate/internal/core"
	"github.com/JonMunkholm/regvalidate/internal/logging"
)

// Handler processes one decoded message.
type Handler func(ctx context.Context, msg core.Message) error

// Counter receives one result per message: processed, failed or skipped.
type Counter interface {
	Message(result string)
}

type nopCounter struct{}

func (nopCounter) Message(string) {}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config selects the topic to read.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Consumer reads messages one at a time and commits an offset only after the
// message was handled. A message whose handler fails stays uncommitted and
// is read again after a rebalance or restart.
type Consumer struct {
	reader  messageReader
	handler Handler
	counter Counter
}

// NewConsumer creates a consumer in consumer group cfg.GroupID.
func NewConsumer(cfg Config, handler Handler, counter Counter) (*Consumer, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" || cfg.GroupID == "" {
		return nil, fmt.Errorf("queue consumer: brokers, topic and group id are required")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // commit explicitly
	})
	return newConsumer(reader, handler, counter), nil
}

func newConsumer(r messageReader, handler Handler, counter Counter) *Consumer {
	if counter == nil {
		counter = nopCounter{}
	}
	return &Consumer{reader: r, handler: handler, counter: counter}
}

// Run consumes until ctx is cancelled. It returns ctx.Err() on shutdown.
func (c *Consumer) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("consumer stopped")
				return ctx.Err()
			}
			logger.Error("fetch message failed", "error", err)
			continue
		}
		if err := c.handle(ctx, m); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
}

// handle processes one record. The returned error is only for Run's shutdown
// check; failures are logged here.
func (c *Consumer) handle(ctx context.Context, m kafka.Message) error {
	logger := logging.WithFields(ctx, "topic", m.Topic, "partition", m.Partition, "offset", m.Offset)

	var msg core.Message
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		logger.Error("undecodable message skipped", "error", err, "value_length", len(m.Value))
		c.counter.Message("skipped")
		return c.commit(ctx, m)
	}

	err := c.handler(ctx, msg)
	switch {
	case err == nil:
		c.counter.Message("processed")
		return c.commit(ctx, m)
	case errors.Is(err, core.ErrInvalidMessage):
		logger.Error("invalid message skipped", "submission_id", msg.SubmissionID, "error", err)
		c.counter.Message("skipped")
		return c.commit(ctx, m)
	default:
		logger.Error("message processing failed, left for redelivery", "submission_id", msg.SubmissionID, "error", err)
		c.counter.Message("failed")
		return err
	}
}

func (c *Consumer) commit(ctx context.Context, m kafka.Message) error {
	if err := c.reader.CommitMessages(ctx, m); err != nil {
		logging.FromContext(ctx).Error("commit offset failed",
			"topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "error", err)
		return err
	}
	return nil
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("close kafka reader: %w", err)
	}
	return nil
}
