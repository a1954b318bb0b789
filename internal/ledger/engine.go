package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/agentpay-wallet-ledger/internal/domain/agent"
	"github.com/agentpay-wallet-ledger/internal/domain/gaming"
	"github.com/agentpay-wallet-ledger/internal/domain/listing"
	"github.com/agentpay-wallet-ledger/internal/domain/outbox"
	"github.com/agentpay-wallet-ledger/internal/domain/payout"
	"github.com/agentpay-wallet-ledger/internal/domain/shared"
	"github.com/agentpay-wallet-ledger/internal/domain/txlog"
	"github.com/agentpay-wallet-ledger/internal/domain/wallet"
	"github.com/agentpay-wallet-ledger/internal/platform/persistence"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Engine performs every balance mutation as one database transaction:
// row locks, balance adjustments, the audit record and the outbox event
// commit together or not at all. A failed operation leaves no trace.
type Engine struct {
	logger   *slog.Logger
	txm      persistence.TxManager
	accounts wallet.Repository
	agents   agent.Repository
	records  txlog.Repository
	payouts  payout.Repository
	listings listing.Repository
	sessions gaming.Repository
	outbox   outbox.Repository
	currency string
}

// NewEngine creates a ledger engine. currency is the ledger-wide currency
// code stamped on transfer and payout events.
func NewEngine(
	logger *slog.Logger,
	txm persistence.TxManager,
	accounts wallet.Repository,
	agents agent.Repository,
	records txlog.Repository,
	payouts payout.Repository,
	listings listing.Repository,
	sessions gaming.Repository,
	outboxRepo outbox.Repository,
	currency string,
) *Engine {
	return &Engine{
		logger:   logger,
		txm:      txm,
		accounts: accounts,
		agents:   agents,
		records:  records,
		payouts:  payouts,
		listings: listings,
		sessions: sessions,
		outbox:   outboxRepo,
		currency: currency,
	}
}

// GetBalance returns the agent's wallet, creating a zero-balance wallet on
// first access. Unknown agents get ErrAgentNotFound.
func (e *Engine) GetBalance(ctx context.Context, agentID uuid.UUID) (*wallet.Account, error) {
	exists, err := e.agents.Exists(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, agent.ErrAgentNotFound{AgentID: agentID}
	}
	return e.accounts.GetOrCreate(ctx, agentID)
}

// Transfer moves amount from sender to receiver and appends a completed
// transfer record, all inside one transaction. The sender's row is locked
// first so concurrent transfers from the same wallet serialize; the
// receiver is credited with a single upsert, so a first-time receiver
// cannot race on wallet creation.
func (e *Engine) Transfer(ctx context.Context, senderID, receiverID uuid.UUID, amount decimal.Decimal) (*txlog.Record, error) {
	if amount.Sign() <= 0 {
		return nil, wallet.ErrInvalidAmount
	}
	if senderID == receiverID {
		return nil, wallet.ErrSelfTransfer
	}

	exists, err := e.agents.Exists(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, agent.ErrAgentNotFound{AgentID: receiverID}
	}

	var record *txlog.Record
	err = e.txm.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accounts := e.accounts.WithTx(tx)

		sender, err := accounts.LockForUpdate(ctx, senderID)
		if err != nil {
			// No wallet row means nothing was ever credited
			if errors.As(err, &wallet.ErrAccountNotFound{}) {
				return wallet.ErrInsufficientFunds
			}
			return err
		}
		if !sender.CanDebit(amount) {
			return wallet.ErrInsufficientFunds
		}

		if err := accounts.AdjustBalance(ctx, senderID, amount.Neg(), decimal.Zero); err != nil {
			return err
		}
		if err := accounts.CreditOrCreate(ctx, receiverID, amount); err != nil {
			return err
		}

		record = txlog.NewTransfer(senderID, receiverID, amount, e.currency)
		if err := e.records.WithTx(tx).Append(ctx, record); err != nil {
			return err
		}

		return e.emitEvent(ctx, tx, &shared.SettlementEvent{
			EventID:     uuid.New(),
			Type:        shared.EventTypeTransferCompleted,
			AgentID:     senderID,
			PeerID:      &receiverID,
			Amount:      amount,
			Currency:    e.currency,
			ReferenceID: record.ID,
			OccurredAt:  time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Transfer completed",
		"transaction_id", record.ID.String(),
		"sender_id", senderID.String(),
		"receiver_id", receiverID.String(),
		"amount", amount.String(),
	)
	return record, nil
}

// RequestPayout debits the agent's wallet and enqueues a pending payout in
// one transaction. The external disbursement happens later; if it fails,
// the payout is marked failed but the debit stands.
func (e *Engine) RequestPayout(ctx context.Context, agentID uuid.UUID, amount decimal.Decimal, destinationAddress string) (*payout.Payout, error) {
	if amount.Sign() <= 0 {
		return nil, wallet.ErrInvalidAmount
	}

	p, err := payout.NewPayout(agentID, amount, destinationAddress)
	if err != nil {
		return nil, err
	}

	err = e.txm.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accounts := e.accounts.WithTx(tx)

		acc, err := accounts.LockForUpdate(ctx, agentID)
		if err != nil {
			if errors.As(err, &wallet.ErrAccountNotFound{}) {
				return wallet.ErrInsufficientFunds
			}
			return err
		}
		if !acc.CanDebit(amount) {
			return wallet.ErrInsufficientFunds
		}

		if err := accounts.AdjustBalance(ctx, agentID, amount.Neg(), decimal.Zero); err != nil {
			return err
		}
		if err := accounts.StampWithdrawal(ctx, agentID, p.CreatedAt); err != nil {
			return err
		}
		if err := e.payouts.WithTx(tx).Create(ctx, p); err != nil {
			return err
		}

		return e.emitEvent(ctx, tx, &shared.SettlementEvent{
			EventID:     uuid.New(),
			Type:        shared.EventTypePayoutRequested,
			AgentID:     agentID,
			Amount:      amount,
			Currency:    e.currency,
			ReferenceID: p.ID,
			Destination: p.DestinationAddress,
			OccurredAt:  time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Payout requested",
		"payout_id", p.ID.String(),
		"agent_id", agentID.String(),
		"amount", amount.String(),
	)
	return p, nil
}

// SettlePurchase marks the listing sold and appends a completed purchase
// record. The listing row is locked so at most one purchase wins; a second
// buyer gets ErrListingSold. No wallet balance moves here: marketplace
// payment settles out of band and this operation records the sale.
func (e *Engine) SettlePurchase(ctx context.Context, buyerID, listingID uuid.UUID) (*txlog.Record, error) {
	var record *txlog.Record
	err := e.txm.ExecuteTx(ctx, func(tx pgx.Tx) error {
		listings := e.listings.WithTx(tx)

		l, err := listings.LockForUpdate(ctx, listingID)
		if err != nil {
			return err
		}
		if !l.IsActive() {
			return listing.ErrListingSold{ID: listingID}
		}
		if l.AgentID == buyerID {
			return listing.ErrSelfPurchase
		}

		if err := listings.MarkSold(ctx, listingID); err != nil {
			return err
		}

		record = txlog.NewPurchase(buyerID, l.AgentID, listingID, l.Price, l.Currency)
		if err := e.records.WithTx(tx).Append(ctx, record); err != nil {
			return err
		}

		sellerID := l.AgentID
		return e.emitEvent(ctx, tx, &shared.SettlementEvent{
			EventID:     uuid.New(),
			Type:        shared.EventTypePurchaseSettled,
			AgentID:     buyerID,
			PeerID:      &sellerID,
			Amount:      l.Price,
			Currency:    l.Currency,
			ReferenceID: record.ID,
			OccurredAt:  time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Purchase settled",
		"transaction_id", record.ID.String(),
		"buyer_id", buyerID.String(),
		"listing_id", listingID.String(),
	)
	return record, nil
}

// RecordGameSession applies the session's net profit to the agent's wallet
// and writes the audit row in one transaction. A losing session is a debit
// and must be covered by the current balance; a winning session credits
// the wallet, creating it if needed.
func (e *Engine) RecordGameSession(ctx context.Context, agentID uuid.UUID, gameType string, bet, payoutAmount decimal.Decimal, outcome json.RawMessage) (*gaming.Session, error) {
	if strings.TrimSpace(gameType) == "" {
		return nil, gaming.ErrInvalidGameType
	}
	if bet.Sign() < 0 || payoutAmount.Sign() < 0 {
		return nil, wallet.ErrInvalidAmount
	}

	// A winning session upserts the wallet, so an unknown agent has to be
	// rejected here rather than surfacing as a constraint violation.
	exists, err := e.agents.Exists(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, agent.ErrAgentNotFound{AgentID: agentID}
	}

	session := gaming.NewSession(agentID, gameType, bet, payoutAmount, outcome)
	profit := session.Profit()

	err = e.txm.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accounts := e.accounts.WithTx(tx)

		switch profit.Sign() {
		case -1:
			acc, err := accounts.LockForUpdate(ctx, agentID)
			if err != nil {
				if errors.As(err, &wallet.ErrAccountNotFound{}) {
					return wallet.ErrInsufficientFunds
				}
				return err
			}
			if !acc.CanDebit(profit.Neg()) {
				return wallet.ErrInsufficientFunds
			}
			if err := accounts.AdjustBalance(ctx, agentID, profit, decimal.Zero); err != nil {
				return err
			}
		case 1:
			if err := accounts.CreditOrCreate(ctx, agentID, profit); err != nil {
				return err
			}
		}

		if err := e.sessions.WithTx(tx).Create(ctx, session); err != nil {
			return err
		}

		return e.emitEvent(ctx, tx, &shared.SettlementEvent{
			EventID:     uuid.New(),
			Type:        shared.EventTypeGameSessionRecorded,
			AgentID:     agentID,
			Amount:      profit,
			Currency:    e.currency,
			ReferenceID: session.ID,
			Detail:      outcome,
			OccurredAt:  time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Game session recorded",
		"session_id", session.ID.String(),
		"agent_id", agentID.String(),
		"game_type", gameType,
		"profit", profit.String(),
	)
	return session, nil
}

// ListTransactions returns the agent's transaction records, newest first,
// along with the total count for pagination.
func (e *Engine) ListTransactions(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*txlog.Record, int64, error) {
	limit, offset = normalizePage(limit, offset)

	records, err := e.records.ListByAgent(ctx, agentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	total, err := e.records.CountByAgent(ctx, agentID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return records, total, nil
}

// ListPayouts returns the agent's payout requests, newest first
func (e *Engine) ListPayouts(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*payout.Payout, int64, error) {
	limit, offset = normalizePage(limit, offset)

	payouts, err := e.payouts.ListByAgent(ctx, agentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payouts: %w", err)
	}
	total, err := e.payouts.CountByAgent(ctx, agentID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count payouts: %w", err)
	}
	return payouts, total, nil
}

// GetPayout returns a single payout request
func (e *Engine) GetPayout(ctx context.Context, id uuid.UUID) (*payout.Payout, error) {
	return e.payouts.GetByID(ctx, id)
}

// ListGameSessions returns the agent's game session audit rows, newest first
func (e *Engine) ListGameSessions(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*gaming.Session, error) {
	limit, offset = normalizePage(limit, offset)
	return e.sessions.ListByAgent(ctx, agentID, limit, offset)
}

// emitEvent writes the settlement event to the outbox inside the caller's
// transaction so the event commits only with the mutation it describes.
func (e *Engine) emitEvent(ctx context.Context, tx pgx.Tx, event *shared.SettlementEvent) error {
	event.CorrelationID = shared.CorrelationID(ctx)

	msg, err := outbox.NewMessage(event)
	if err != nil {
		return fmt.Errorf("failed to build outbox message: %w", err)
	}
	return e.outbox.WithTx(tx).Create(ctx, msg)
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
