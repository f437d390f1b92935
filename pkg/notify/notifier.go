package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/oncentra/registry/pkg/common/config"
	"github.com/oncentra/registry/pkg/common/logger"
	"github.com/segmentio/kafka-go"
)

// Notification is the outbound message contract. Delivery is fire-and-forget;
// failures are logged and never surfaced to the triggering request.
type Notification struct {
	ID        string                 `json:"id"`
	To        string                 `json:"to"`
	Subject   string                 `json:"subject"`
	Template  string                 `json:"template"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

type Publisher interface {
	Send(ctx context.Context, n Notification)
}

// KafkaPublisher writes notifications to the notification topic; a worker
// consumes and delivers them.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher() *KafkaPublisher {
	cfg := config.Load()
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.NotificationTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Send(ctx context.Context, n Notification) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	payload, err := json.Marshal(n)
	if err != nil {
		logger.Log.WithError(err).Error("failed to marshal notification")
		return
	}

	message := kafka.Message{
		Key:   []byte(n.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "template", Value: []byte(n.Template)},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"notification_id": n.ID,
			"template":        n.Template,
		}).Error("failed to publish notification")
		return
	}

	logger.Log.WithFields(map[string]interface{}{
		"notification_id": n.ID,
		"template":        n.Template,
		"to":              n.To,
	}).Debug("notification published")
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops notifications; used in tests and local development
// without a broker.
type NopPublisher struct{}

func (NopPublisher) Send(ctx context.Context, n Notification) {
	logger.Log.WithFields(map[string]interface{}{
		"to":       n.To,
		"template": n.Template,
	}).Debug("notification dropped (nop publisher)")
}
