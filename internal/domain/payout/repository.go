package payout

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages payout queue persistence. Create runs inside the
// ledger's unit of work; the Mark transitions are invoked later by the
// disbursement worker and only ever move a row out of pending.
type Repository interface {
	Create(ctx context.Context, p *Payout) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payout, error)

	// ListByAgent returns the agent's payouts, newest first.
	ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*Payout, error)
	CountByAgent(ctx context.Context, agentID uuid.UUID) (int64, error)

	// MarkCompleted transitions pending -> completed and records the
	// external transaction hash. Fails with ErrPayoutNotPending if the row
	// is missing or already terminal.
	MarkCompleted(ctx context.Context, id uuid.UUID, txHash string) error

	// MarkFailed transitions pending -> failed.
	MarkFailed(ctx context.Context, id uuid.UUID) error

	WithTx(tx pgx.Tx) Repository
}

// ErrPayoutNotFound indicates a missing payout row
type ErrPayoutNotFound struct {
	ID uuid.UUID
}

func (e ErrPayoutNotFound) Error() string {
	return "payout not found: " + e.ID.String()
}

// ErrPayoutNotPending indicates an attempted transition out of a terminal
// state (or on a row that does not exist)
type ErrPayoutNotPending struct {
	ID uuid.UUID
}

func (e ErrPayoutNotPending) Error() string {
	return "payout is not pending: " + e.ID.String()
}
