package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agentpay-wallet-ledger/internal/domain/history"
	"github.com/agentpay-wallet-ledger/internal/domain/shared"
)

// settlementService projects settlement events into the MongoDB history
// collection and triggers disbursement for payout requests. Processing is
// idempotent: a redelivered event neither duplicates history nor disburses
// twice.
type settlementService struct {
	historyRepo     history.Repository
	payoutProcessor PayoutProcessor
	logger          *slog.Logger
}

func NewSettlementService(
	logger *slog.Logger,
	historyRepo history.Repository,
	payoutProcessor PayoutProcessor,
) SettlementService {
	return &settlementService{
		historyRepo:     historyRepo,
		payoutProcessor: payoutProcessor,
		logger:          logger,
	}
}

func (s *settlementService) ProcessEvent(ctx context.Context, event *shared.SettlementEvent) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	entry := history.NewEntry(event)
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		if errors.As(err, &history.ErrDuplicateEntry{}) {
			logger.Info("Settlement event already projected, continuing",
				"event_id", event.EventID.String(),
				"type", string(event.Type),
			)
		} else {
			return fmt.Errorf("failed to project settlement event %s: %w", event.EventID, err)
		}
	}

	if event.Type == shared.EventTypePayoutRequested {
		if err := s.payoutProcessor.ProcessPayoutEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to process payout event %s: %w", event.EventID, err)
		}
	}

	logger.Info("Settlement event processed",
		"event_id", event.EventID.String(),
		"type", string(event.Type),
		"agent_id", event.AgentID.String(),
	)
	return nil
}
