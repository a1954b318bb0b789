package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/agentpay-wallet-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

type SettlementEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// Creates a new settlement event producer and ensures the topic exists
func NewSettlementEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*SettlementEventProducer, error) {
	if cfg.SettlementTopic == "" {
		return nil, fmt.Errorf("kafka settlement topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for settlement event producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.SettlementTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure settlement topic %s exists: %w", cfg.SettlementTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.SettlementTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false, // Synchronous so the outbox poller only marks rows it actually published
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write settlement events", "topic", cfg.SettlementTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote settlement events", "topic", cfg.SettlementTopic, "count", len(messages))
			}
		},
	}

	return &SettlementEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.SettlementTopic,
	}, nil
}

func (p *SettlementEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal settlement event value: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish settlement event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish settlement event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published settlement event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *SettlementEventProducer) Close() error {
	p.logger.Info("Closing settlement event Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
