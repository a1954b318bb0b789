package disbursement

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Disburser executes the external value movement for a payout. The ledger
// debit has already committed by the time a disburser runs; the result
// only drives the pending -> completed | failed transition.
type Disburser interface {
	// Disburse sends amount to the destination address and returns the
	// external transaction hash on success.
	Disburse(ctx context.Context, payoutID uuid.UUID, amount decimal.Decimal, destinationAddress string) (string, error)
}

// SimulatedDisburser fakes external settlement for development and test
// environments. Every disbursement succeeds with a random transaction hash.
type SimulatedDisburser struct {
	logger *slog.Logger
}

func NewSimulatedDisburser(logger *slog.Logger) *SimulatedDisburser {
	return &SimulatedDisburser{logger: logger}
}

func (d *SimulatedDisburser) Disburse(ctx context.Context, payoutID uuid.UUID, amount decimal.Decimal, destinationAddress string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate simulated tx hash: %w", err)
	}
	txHash := hex.EncodeToString(buf)

	d.logger.Info("Simulated disbursement",
		"payout_id", payoutID.String(),
		"amount", amount.String(),
		"destination", destinationAddress,
		"tx_hash", txHash,
	)
	return txHash, nil
}
