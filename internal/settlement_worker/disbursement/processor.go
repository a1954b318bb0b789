package disbursement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agentpay-wallet-ledger/internal/domain/payout"
	"github.com/agentpay-wallet-ledger/internal/domain/shared"
)

// Processor drives pending payouts to a terminal state. On a successful
// disbursement the payout becomes completed with the external tx hash; a
// failed disbursement marks it failed. Both transitions are terminal and
// guarded by a status predicate, so a redelivered event cannot disburse
// twice.
type Processor struct {
	payouts   payout.Repository
	disburser Disburser
	logger    *slog.Logger
}

func NewProcessor(payouts payout.Repository, disburser Disburser, logger *slog.Logger) *Processor {
	return &Processor{
		payouts:   payouts,
		disburser: disburser,
		logger:    logger,
	}
}

// ProcessPayoutEvent handles one payout_requested settlement event
func (p *Processor) ProcessPayoutEvent(ctx context.Context, event *shared.SettlementEvent) error {
	payoutID := event.ReferenceID

	existing, err := p.payouts.GetByID(ctx, payoutID)
	if err != nil {
		return fmt.Errorf("failed to load payout %s: %w", payoutID, err)
	}
	if existing.IsTerminal() {
		p.logger.Info("Payout already in terminal state, skipping disbursement",
			"payout_id", payoutID.String(),
			"status", string(existing.Status),
		)
		return nil
	}

	txHash, disburseErr := p.disburser.Disburse(ctx, payoutID, existing.Amount, existing.DestinationAddress)
	if disburseErr != nil {
		p.logger.Error("Disbursement failed, marking payout failed",
			"payout_id", payoutID.String(),
			"error", disburseErr,
		)
		if err := p.payouts.MarkFailed(ctx, payoutID); err != nil {
			if errors.As(err, &payout.ErrPayoutNotPending{}) {
				return nil // Another worker already finalized it
			}
			return fmt.Errorf("failed to mark payout %s failed: %w", payoutID, err)
		}
		return nil
	}

	if err := p.payouts.MarkCompleted(ctx, payoutID, txHash); err != nil {
		if errors.As(err, &payout.ErrPayoutNotPending{}) {
			p.logger.Warn("Payout finalized concurrently after disbursement",
				"payout_id", payoutID.String(),
				"tx_hash", txHash,
			)
			return nil
		}
		return fmt.Errorf("failed to mark payout %s completed: %w", payoutID, err)
	}

	p.logger.Info("Payout completed",
		"payout_id", payoutID.String(),
		"tx_hash", txHash,
	)
	return nil
}
