package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/agentpay-wallet-ledger/internal/domain/history"
)

type historyService struct {
	historyRepo history.Repository
	logger      *slog.Logger
}

// NewHistoryService creates a service reading the settlement history
// projection. The projection is eventually consistent; authoritative
// transaction and payout records come from the ledger itself.
func NewHistoryService(logger *slog.Logger, historyRepo history.Repository) HistoryService {
	return &historyService{
		historyRepo: historyRepo,
		logger:      logger,
	}
}

func (s *historyService) GetSettlementHistory(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*history.Entry, int64, error) {
	entries, err := s.historyRepo.GetByAgentID(ctx, agentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get settlement history: %w", err)
	}

	total, err := s.historyRepo.CountByAgentID(ctx, agentID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count settlement history: %w", err)
	}

	return entries, total, nil
}
