package notify

import (
	"context"
	"encoding/json"

	"github.com/oncentra/registry/pkg/common/config"
	"github.com/oncentra/registry/pkg/common/logger"
	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
}

type Handler func(ctx context.Context, n Notification) error

func NewConsumer(groupID string) *Consumer {
	cfg := config.Load()
	if groupID == "" {
		groupID = cfg.KafkaGroupID
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.NotificationTopic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	return &Consumer{reader: reader}
}

func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			message, err := c.reader.FetchMessage(ctx)
			if err != nil {
				logger.Log.WithError(err).Error("failed to fetch notification")
				continue
			}

			var n Notification
			if err := json.Unmarshal(message.Value, &n); err != nil {
				logger.Log.WithError(err).Error("failed to unmarshal notification")
				c.reader.CommitMessages(ctx, message)
				continue
			}

			if err := handler(ctx, n); err != nil {
				logger.Log.WithError(err).WithFields(map[string]interface{}{
					"notification_id": n.ID,
				}).Error("failed to process notification")
				// Don't commit on error, will retry
				continue
			}

			if err := c.reader.CommitMessages(ctx, message); err != nil {
				logger.Log.WithError(err).Error("failed to commit notification offset")
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
