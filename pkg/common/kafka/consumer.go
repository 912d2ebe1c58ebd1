package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/synaptica-ai/requestmapping/pkg/common/config"
	"github.com/synaptica-ai/requestmapping/pkg/common/httpclient"
	"github.com/synaptica-ai/requestmapping/pkg/common/logger"
	"github.com/synaptica-ai/requestmapping/pkg/common/models"
)

const (
	handlerAttempts   = 3
	handlerRetryDelay = 500 * time.Millisecond
)

type Consumer struct {
	reader     *kafka.Reader
	attempts   int
	retryDelay time.Duration
}

type EventHandler func(ctx context.Context, event models.Event) error

func NewConsumer(cfg *config.Config, topic string, groupID string) *Consumer {
	if groupID == "" {
		groupID = cfg.KafkaGroupID
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	return &Consumer{reader: reader, attempts: handlerAttempts, retryDelay: handlerRetryDelay}
}

// Consume fetches events until ctx ends. A handler failure is retried in place;
// once the retries are spent Consume returns without committing, so the event
// is fetched again from the last committed offset after a restart or rebalance.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		message, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return err
			}
			logger.Log.WithError(err).Error("Failed to fetch message")
			continue
		}

		event, err := decodeEvent(message.Value)
		if err != nil {
			// poison message: commit so it is not redelivered forever
			logger.Log.WithError(err).Error("Failed to unmarshal event")
			if err := c.reader.CommitMessages(ctx, message); err != nil {
				logger.Log.WithError(err).Error("Failed to commit message")
			}
			continue
		}

		if err := c.dispatch(ctx, handler, event); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Log.WithError(err).WithFields(map[string]interface{}{
				"event_id": event.ID,
			}).Error("Failed to process event")
			return fmt.Errorf("handling event %s: %w", event.ID, err)
		}

		if err := c.reader.CommitMessages(ctx, message); err != nil {
			logger.Log.WithError(err).Error("Failed to commit message")
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, handler EventHandler, event models.Event) error {
	return httpclient.Retry(ctx, c.attempts, c.retryDelay, func() error {
		return handler(ctx, event)
	})
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func decodeEvent(value []byte) (models.Event, error) {
	var event models.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return models.Event{}, err
	}
	return event, nil
}
