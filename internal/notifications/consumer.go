package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"eventhub/internal/shared/config"
	"eventhub/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Directory resolves a recipient id into an address and display name
type Directory interface {
	Lookup(ctx context.Context, userID uuid.UUID) (email, name string, err error)
}

// Consumer reads the notifications topic and delivers each message
type Consumer struct {
	group   sarama.ConsumerGroup
	topics  []string
	workers int
	handler *groupHandler
	log     *logger.Logger
	wg      sync.WaitGroup
}

func NewConsumer(cfg config.KafkaConfig, sender Sender, directory Directory, log *logger.Logger) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	workers := cfg.ConsumerWorkers
	if workers <= 0 {
		workers = 1
	}

	return &Consumer{
		group:   group,
		topics:  []string{cfg.Topic},
		workers: workers,
		handler: newGroupHandler(sender, directory, log),
		log:     log,
	}, nil
}

// Start launches the workers. They run until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	c.log.Info("starting notification consumers", "workers", c.workers, "topics", c.topics)

	go func() {
		for err := range c.group.Errors() {
			c.log.Error("consumer group error", "error", err)
		}
	}()

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			for {
				if err := c.group.Consume(ctx, c.topics, c.handler); err != nil {
					c.log.Error("error consuming notifications", "worker", workerID, "error", err)
					time.Sleep(time.Second)
				}
				if ctx.Err() != nil {
					return
				}
			}
		}(i)
	}
}

// Stop closes the group and waits for the workers to exit.
func (c *Consumer) Stop() error {
	err := c.group.Close()
	c.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type groupHandler struct {
	sender    Sender
	directory Directory
	log       *logger.Logger
	backoff   time.Duration
}

func newGroupHandler(sender Sender, directory Directory, log *logger.Logger) *groupHandler {
	return &groupHandler{sender: sender, directory: directory, log: log, backoff: time.Second}
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.process(session.Context(), message.Value); err != nil {
				h.log.Error("failed to process notification",
					"partition", message.Partition,
					"offset", message.Offset,
					"error", err,
				)
			}
			// poison messages are skipped, not redelivered
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *groupHandler) process(ctx context.Context, payload []byte) error {
	var notification Notification
	if err := json.Unmarshal(payload, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	if notification.RecipientEmail == "" && h.directory != nil {
		email, name, err := h.directory.Lookup(ctx, notification.RecipientID)
		if err != nil {
			return fmt.Errorf("failed to resolve recipient %s: %w", notification.RecipientID, err)
		}
		notification.RecipientEmail = email
		notification.RecipientName = name
	}

	if err := h.sendWithRetry(ctx, &notification); err != nil {
		notification.MarkFailed(err)
		return err
	}
	notification.MarkSent()
	return nil
}

func (h *groupHandler) sendWithRetry(ctx context.Context, notification *Notification) error {
	var err error
	for attempt := 0; attempt <= notification.MaxRetries; attempt++ {
		if err = h.sender.Send(ctx, notification); err == nil {
			return nil
		}
		notification.RetryCount = attempt + 1
		if attempt == notification.MaxRetries {
			break
		}

		delay := h.backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", notification.RetryCount, err)
}
