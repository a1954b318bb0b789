// Package postgres provides PostgreSQL implementations of the domain
// repositories. All balance reads and writes go through here; mutation is
// only valid while the enclosing unit of work holds the account row lock.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agentpay-wallet-ledger/internal/domain/wallet"
	"github.com/agentpay-wallet-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepository implements the wallet.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) wallet.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so account operations join
// the caller's unit of work.
func (r *AccountRepository) WithTx(tx pgx.Tx) wallet.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const accountColumns = `agent_id, balance, total_earnings, last_withdrawal_at, created_at, updated_at`

func scanAccount(row pgx.Row) (*wallet.Account, error) {
	var acc wallet.Account
	err := row.Scan(
		&acc.AgentID,
		&acc.Balance,
		&acc.TotalEarnings,
		&acc.LastWithdrawalAt,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// Get retrieves an account row without locking it
func (r *AccountRepository) Get(ctx context.Context, agentID uuid.UUID) (*wallet.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE agent_id = $1
	`

	acc, err := scanAccount(r.querier.QueryRow(ctx, query, agentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wallet.ErrAccountNotFound{AgentID: agentID}
		}
		r.logger.Error("Failed to get account", "agent_id", agentID.String(), "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return acc, nil
}

// GetOrCreate returns the account row, inserting an empty wallet when the
// agent has none. The insert is idempotent under the primary key, so two
// concurrent first calls both observe the same row.
func (r *AccountRepository) GetOrCreate(ctx context.Context, agentID uuid.UUID) (*wallet.Account, error) {
	query := `
		INSERT INTO accounts (agent_id, balance, total_earnings, created_at, updated_at)
		VALUES ($1, 0, 0, NOW(), NOW())
		ON CONFLICT (agent_id) DO UPDATE SET agent_id = EXCLUDED.agent_id
		RETURNING ` + accountColumns + `
	`

	acc, err := scanAccount(r.querier.QueryRow(ctx, query, agentID))
	if err != nil {
		r.logger.Error("Failed to get or create account", "agent_id", agentID.String(), "error", err)
		return nil, fmt.Errorf("failed to get or create account: %w", err)
	}

	return acc, nil
}

// LockForUpdate obtains an exclusive lock on the account row and returns its
// current state. Must be called inside a transaction; a concurrent locker on
// the same agent blocks until this unit of work commits or aborts.
func (r *AccountRepository) LockForUpdate(ctx context.Context, agentID uuid.UUID) (*wallet.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE agent_id = $1
		FOR UPDATE
	`

	acc, err := scanAccount(r.querier.QueryRow(ctx, query, agentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wallet.ErrAccountNotFound{AgentID: agentID}
		}
		r.logger.Error("Failed to lock account for update", "agent_id", agentID.String(), "error", err)
		return nil, fmt.Errorf("failed to lock account for update: %w", err)
	}

	return acc, nil
}

// AdjustBalance applies balance += delta and total_earnings += earningsDelta.
// Only valid while the caller holds the row lock; the balance CHECK
// constraint is the last line of defense against a negative result.
func (r *AccountRepository) AdjustBalance(ctx context.Context, agentID uuid.UUID, delta, earningsDelta decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = balance + $1, total_earnings = total_earnings + $2, updated_at = NOW()
		WHERE agent_id = $3
	`

	result, err := r.querier.Exec(ctx, query, delta, earningsDelta, agentID)
	if err != nil {
		r.logger.Error("Failed to adjust account balance", "agent_id", agentID.String(), "error", err)
		return fmt.Errorf("failed to adjust account balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return wallet.ErrAccountNotFound{AgentID: agentID}
	}

	return nil
}

// CreditOrCreate adds amount to both balance and total_earnings, creating
// the wallet row when the receiver has none. A single upsert under the
// primary key, so two first-time credits to the same agent serialize instead
// of racing on row creation.
func (r *AccountRepository) CreditOrCreate(ctx context.Context, agentID uuid.UUID, amount decimal.Decimal) error {
	query := `
		INSERT INTO accounts (agent_id, balance, total_earnings, created_at, updated_at)
		VALUES ($1, $2, $2, NOW(), NOW())
		ON CONFLICT (agent_id) DO UPDATE
		SET balance = accounts.balance + EXCLUDED.balance,
		    total_earnings = accounts.total_earnings + EXCLUDED.total_earnings,
		    updated_at = NOW()
	`

	_, err := r.querier.Exec(ctx, query, agentID, amount)
	if err != nil {
		r.logger.Error("Failed to credit account", "agent_id", agentID.String(), "error", err)
		return fmt.Errorf("failed to credit account: %w", err)
	}

	return nil
}

// StampWithdrawal records the time of the most recent payout debit
func (r *AccountRepository) StampWithdrawal(ctx context.Context, agentID uuid.UUID, at time.Time) error {
	query := `
		UPDATE accounts
		SET last_withdrawal_at = $1, updated_at = NOW()
		WHERE agent_id = $2
	`

	result, err := r.querier.Exec(ctx, query, at, agentID)
	if err != nil {
		r.logger.Error("Failed to stamp withdrawal", "agent_id", agentID.String(), "error", err)
		return fmt.Errorf("failed to stamp withdrawal: %w", err)
	}

	if result.RowsAffected() == 0 {
		return wallet.ErrAccountNotFound{AgentID: agentID}
	}

	return nil
}
