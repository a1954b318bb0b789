package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agentpay-wallet-ledger/internal/domain/gaming"
	"github.com/agentpay-wallet-ledger/internal/domain/history"
	"github.com/agentpay-wallet-ledger/internal/domain/payout"
	"github.com/agentpay-wallet-ledger/internal/domain/txlog"
	"github.com/agentpay-wallet-ledger/internal/domain/wallet"
)

// LedgerService is the surface of the ledger engine the HTTP handlers
// depend on. The concrete implementation is ledger.Engine; tests substitute
// a mock.
type LedgerService interface {
	GetBalance(ctx context.Context, agentID uuid.UUID) (*wallet.Account, error)
	Transfer(ctx context.Context, senderID, receiverID uuid.UUID, amount decimal.Decimal) (*txlog.Record, error)
	RequestPayout(ctx context.Context, agentID uuid.UUID, amount decimal.Decimal, destinationAddress string) (*payout.Payout, error)
	SettlePurchase(ctx context.Context, buyerID, listingID uuid.UUID) (*txlog.Record, error)
	RecordGameSession(ctx context.Context, agentID uuid.UUID, gameType string, bet, payoutAmount decimal.Decimal, outcome json.RawMessage) (*gaming.Session, error)
	ListTransactions(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*txlog.Record, int64, error)
	ListPayouts(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*payout.Payout, int64, error)
	GetPayout(ctx context.Context, id uuid.UUID) (*payout.Payout, error)
	ListGameSessions(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*gaming.Session, error)
}

// HistoryService exposes the settlement history projection
type HistoryService interface {
	GetSettlementHistory(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*history.Entry, int64, error)
}
