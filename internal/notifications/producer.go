package notifications

import (
	"context"
	"fmt"
	"time"

	"eventhub/internal/shared/config"
	"eventhub/pkg/logger"
	"eventhub/pkg/metrics"

	"github.com/IBM/sarama"
)

// Publisher hands notifications to the broker
type Publisher interface {
	Publish(ctx context.Context, notification *Notification) error
	Close() error
}

// KafkaPublisher publishes notifications through a sarama SyncProducer
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaPublisher connects a producer to the configured brokers
func NewKafkaPublisher(cfg config.KafkaConfig, log *logger.Logger) (*KafkaPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// same recipient, same partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Info("kafka notification producer created", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return newKafkaPublisher(producer, cfg.Topic, log), nil
}

func newKafkaPublisher(producer sarama.SyncProducer, topic string, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, notification *Notification) error {
	notification.Status = NotificationStatusQueued

	payload, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(notification.GetPartitionKey()),
		Value:     sarama.ByteEncoder(payload),
		Headers:   createHeaders(notification),
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		notification.MarkFailed(err)
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	p.log.DebugContext(ctx, "notification published",
		"type", notification.Type,
		"recipient_id", notification.RecipientID.String(),
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func createHeaders(n *Notification) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(n.ID.String())},
		{Key: []byte("notification_type"), Value: []byte(n.Type)},
		{Key: []byte("priority"), Value: []byte(n.Priority)},
		{Key: []byte("recipient_id"), Value: []byte(n.RecipientID.String())},
		{Key: []byte("producer"), Value: []byte("eventhub")},
	}
	if n.EventID != nil {
		headers = append(headers, sarama.RecordHeader{Key: []byte("event_id"), Value: []byte(n.EventID.String())})
	}
	if n.RefundID != nil {
		headers = append(headers, sarama.RecordHeader{Key: []byte("refund_id"), Value: []byte(n.RefundID.String())})
	}
	return headers
}

func (p *KafkaPublisher) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

type noopPublisher struct {
	log *logger.Logger
}

// NewNoopPublisher is used when Kafka is disabled. Notifications are only logged.
func NewNoopPublisher(log *logger.Logger) Publisher {
	return &noopPublisher{log: log}
}

func (p *noopPublisher) Publish(ctx context.Context, notification *Notification) error {
	p.log.DebugContext(ctx, "notification dropped, broker disabled",
		"type", notification.Type,
		"recipient_id", notification.RecipientID.String(),
	)
	return nil
}

func (p *noopPublisher) Close() error { return nil }

// Notify publishes without failing the caller. Errors are logged and counted.
func Notify(ctx context.Context, publisher Publisher, notification *Notification, log *logger.Logger) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, notification); err != nil {
		metrics.NotificationsPublished.WithLabelValues(string(notification.Type), metrics.OutcomeError).Inc()
		log.WarnContext(ctx, "failed to publish notification",
			"type", notification.Type,
			"recipient_id", notification.RecipientID.String(),
			"error", err,
		)
		return
	}
	metrics.NotificationsPublished.WithLabelValues(string(notification.Type), metrics.OutcomeOK).Inc()
}
