package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/SAP-F-2025/course-content-service/internal/services"
)

// KafkaConfig holds broker settings for the identity lifecycle stream
type KafkaConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// UserEventsConsumer materializes local user profiles from identity
// lifecycle events. Provisioning is an upsert, so redelivered events
// are harmless.
type UserEventsConsumer struct {
	subscriber message.Subscriber
	users      services.UserService
	logger     *slog.Logger
	topic      string
}

// NewKafkaSubscriber builds the production subscriber
func NewKafkaSubscriber(cfg KafkaConfig, logger *slog.Logger) (message.Subscriber, error) {
	subscriber, err := kafka.NewSubscriber(
		kafka.SubscriberConfig{
			Brokers:               cfg.Brokers,
			Unmarshaler:           kafka.DefaultMarshaler{},
			OverwriteSaramaConfig: kafka.DefaultSaramaSubscriberConfig(),
			ConsumerGroup:         cfg.ConsumerGroup,
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka subscriber: %w", err)
	}
	return subscriber, nil
}

func NewUserEventsConsumer(subscriber message.Subscriber, topic string, users services.UserService, logger *slog.Logger) *UserEventsConsumer {
	return &UserEventsConsumer{
		subscriber: subscriber,
		users:      users,
		logger:     logger,
		topic:      topic,
	}
}

// Run consumes until the context is cancelled or the subscription
// channel closes
func (c *UserEventsConsumer) Run(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", c.topic, err)
	}

	c.logger.Info("User events consumer started", "topic", c.topic)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			c.handle(ctx, msg)
		}
	}
}

// handle processes one lifecycle message. Malformed payloads are acked
// and logged; redelivering them can never succeed. Transient failures
// are nacked for redelivery.
func (c *UserEventsConsumer) handle(ctx context.Context, msg *message.Message) {
	var evt services.UserCreatedEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		c.logger.Error("Dropping malformed user event", "error", err, "message_id", msg.UUID)
		msg.Ack()
		return
	}

	if err := c.users.ProvisionUser(ctx, &evt); err != nil {
		var ruleErr *services.BusinessRuleError
		if errors.As(err, &ruleErr) {
			c.logger.Error("Dropping invalid user event", "error", err, "message_id", msg.UUID)
			msg.Ack()
			return
		}
		c.logger.Error("Failed to provision user, requeueing", "error", err, "user_id", evt.ID)
		msg.Nack()
		return
	}

	msg.Ack()
}

// Close shuts down the subscriber
func (c *UserEventsConsumer) Close() error {
	return c.subscriber.Close()
}
