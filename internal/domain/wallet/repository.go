package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Repository defines wallet account persistence operations.
// The mutating methods are only meaningful inside a unit of work; callers
// obtain a transactional view via WithTx.
type Repository interface {
	// GetOrCreate returns the account row, inserting a zero-balance row
	// if the agent has no wallet yet.
	GetOrCreate(ctx context.Context, agentID uuid.UUID) (*Account, error)

	Get(ctx context.Context, agentID uuid.UUID) (*Account, error)

	// LockForUpdate acquires an exclusive row lock for the duration of the
	// enclosing unit of work. Concurrent lockers on the same agent block
	// until the holder commits or aborts.
	LockForUpdate(ctx context.Context, agentID uuid.UUID) (*Account, error)

	// AdjustBalance applies balance += delta and total_earnings +=
	// earningsDelta to a row the caller has locked.
	AdjustBalance(ctx context.Context, agentID uuid.UUID, delta, earningsDelta decimal.Decimal) error

	// CreditOrCreate atomically adds amount to both balance and
	// total_earnings, inserting the row if the agent has no wallet yet.
	// A single upsert, so two first-time credits cannot race on creation.
	CreditOrCreate(ctx context.Context, agentID uuid.UUID, amount decimal.Decimal) error

	// StampWithdrawal records the time of the most recent payout debit.
	StampWithdrawal(ctx context.Context, agentID uuid.UUID, at time.Time) error

	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates the agent has no wallet row
type ErrAccountNotFound struct {
	AgentID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "wallet account not found: " + e.AgentID.String()
}
