package outbox_poller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/agentpay-wallet-ledger/internal/domain/outbox"
	"github.com/agentpay-wallet-ledger/internal/domain/shared"
	"github.com/agentpay-wallet-ledger/internal/platform/messaging/producers"
)

// EventPublisher publishes outbox messages to the settlement topic
type EventPublisher interface {
	PublishEvent(ctx context.Context, message *outbox.Message) error
}

// KafkaEventPublisher implements EventPublisher on top of a Kafka producer
type KafkaEventPublisher struct {
	outboxRepo outbox.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
}

// NewKafkaEventPublisher creates a new publisher
func NewKafkaEventPublisher(
	outboxRepo outbox.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) EventPublisher {
	return &KafkaEventPublisher{
		outboxRepo: outboxRepo,
		producer:   producer,
		logger:     logger,
	}
}

// PublishEvent publishes one outbox message and marks it processed.
// Messages are keyed by agent ID so every agent's settlement events land
// on one partition and stay ordered.
func (p *KafkaEventPublisher) PublishEvent(ctx context.Context, message *outbox.Message) error {
	event, err := message.GetEvent()
	if err != nil {
		p.logger.Error("Failed to unmarshal settlement event from outbox payload",
			"outbox_id", message.ID, "event_id", message.EventID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if event.CorrelationID != "" {
		logger = p.logger.With("correlation_id", event.CorrelationID)
	}

	if err := p.producer.Publish(ctx, event.AgentID.String(), json.RawMessage(message.Payload)); err != nil {
		logger.Error("Failed to publish settlement event",
			"outbox_id", message.ID, "event_id", message.EventID, "error", err,
		)
		return fmt.Errorf("failed to publish settlement event %s: %w", message.EventID, err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "event_id", message.EventID, "error", err,
		)
		return fmt.Errorf("event %s published, but failed to mark outbox %d as PROCESSED: %w", message.EventID, message.ID, err)
	}

	logger.Info("Outbox message published and marked as PROCESSED", "outbox_id", message.ID, "event_id", message.EventID)
	return nil
}
