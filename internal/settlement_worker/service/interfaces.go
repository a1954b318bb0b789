package service

import (
	"context"

	"github.com/agentpay-wallet-ledger/internal/domain/shared"
)

// SettlementService processes settlement events consumed from Kafka
type SettlementService interface {
	ProcessEvent(ctx context.Context, event *shared.SettlementEvent) error
}

// PayoutProcessor finalizes payout requests once an event arrives
type PayoutProcessor interface {
	ProcessPayoutEvent(ctx context.Context, event *shared.SettlementEvent) error
}
