package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentpay-wallet-ledger/internal/domain/wallet"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func accountRows(agentID uuid.UUID, balance, earnings decimal.Decimal, now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"agent_id", "balance", "total_earnings", "last_withdrawal_at", "created_at", "updated_at"}).
		AddRow(agentID, balance, earnings, (*time.Time)(nil), now, now)
}

func TestAccountRepository_Get(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	agentID := uuid.New()
	now := time.Now()

	query := `
		SELECT agent_id, balance, total_earnings, last_withdrawal_at, created_at, updated_at
		FROM accounts
		WHERE agent_id = \$1
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(agentID).
			WillReturnRows(accountRows(agentID, decimal.NewFromInt(75), decimal.NewFromInt(120), now))

		acc, err := repo.Get(ctx, agentID)
		require.NoError(t, err)
		assert.Equal(t, agentID, acc.AgentID)
		assert.True(t, acc.Balance.Equal(decimal.NewFromInt(75)))
		assert.True(t, acc.TotalEarnings.Equal(decimal.NewFromInt(120)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not_found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(agentID).WillReturnError(pgx.ErrNoRows)

		_, err := repo.Get(ctx, agentID)
		var notFound wallet.ErrAccountNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, agentID, notFound.AgentID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	agentID := uuid.New()
	now := time.Now()

	query := `
		INSERT INTO accounts \(agent_id, balance, total_earnings, created_at, updated_at\)
		VALUES \(\$1, 0, 0, NOW\(\), NOW\(\)\)
		ON CONFLICT \(agent_id\) DO UPDATE SET agent_id = EXCLUDED.agent_id
		RETURNING agent_id, balance, total_earnings, last_withdrawal_at, created_at, updated_at
	`

	t.Run("returns_row", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(agentID).
			WillReturnRows(accountRows(agentID, decimal.Zero, decimal.Zero, now))

		acc, err := repo.GetOrCreate(ctx, agentID)
		require.NoError(t, err)
		assert.Equal(t, agentID, acc.AgentID)
		assert.True(t, acc.Balance.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		dbErr := errors.New("db error")
		mock.ExpectQuery(query).WithArgs(agentID).WillReturnError(dbErr)

		_, err := repo.GetOrCreate(ctx, agentID)
		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_LockForUpdate(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	agentID := uuid.New()
	now := time.Now()

	query := `
		SELECT agent_id, balance, total_earnings, last_withdrawal_at, created_at, updated_at
		FROM accounts
		WHERE agent_id = \$1
		FOR UPDATE
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(agentID).
			WillReturnRows(accountRows(agentID, decimal.NewFromInt(10), decimal.NewFromInt(10), now))

		acc, err := repo.LockForUpdate(ctx, agentID)
		require.NoError(t, err)
		assert.True(t, acc.Balance.Equal(decimal.NewFromInt(10)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not_found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(agentID).WillReturnError(pgx.ErrNoRows)

		_, err := repo.LockForUpdate(ctx, agentID)
		var notFound wallet.ErrAccountNotFound
		require.ErrorAs(t, err, &notFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_AdjustBalance(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	agentID := uuid.New()

	query := `
		UPDATE accounts
		SET balance = balance \+ \$1, total_earnings = total_earnings \+ \$2, updated_at = NOW\(\)
		WHERE agent_id = \$3
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(decimal.NewFromInt(-25), decimal.Zero, agentID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.AdjustBalance(ctx, agentID, decimal.NewFromInt(-25), decimal.Zero)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing_row", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(decimal.NewFromInt(5), decimal.Zero, agentID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.AdjustBalance(ctx, agentID, decimal.NewFromInt(5), decimal.Zero)
		var notFound wallet.ErrAccountNotFound
		require.ErrorAs(t, err, &notFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_CreditOrCreate(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	agentID := uuid.New()

	query := `
		INSERT INTO accounts \(agent_id, balance, total_earnings, created_at, updated_at\)
		VALUES \(\$1, \$2, \$2, NOW\(\), NOW\(\)\)
		ON CONFLICT \(agent_id\) DO UPDATE
		SET balance = accounts.balance \+ EXCLUDED.balance,
		    total_earnings = accounts.total_earnings \+ EXCLUDED.total_earnings,
		    updated_at = NOW\(\)
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(agentID, decimal.NewFromInt(25)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.CreditOrCreate(ctx, agentID, decimal.NewFromInt(25))
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		dbErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(agentID, decimal.NewFromInt(25)).
			WillReturnError(dbErr)

		err := repo.CreditOrCreate(ctx, agentID, decimal.NewFromInt(25))
		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_StampWithdrawal(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: logger}
	agentID := uuid.New()
	at := time.Now()

	query := `
		UPDATE accounts
		SET last_withdrawal_at = \$1, updated_at = NOW\(\)
		WHERE agent_id = \$2
	`

	mock.ExpectExec(query).
		WithArgs(at, agentID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.StampWithdrawal(ctx, agentID, at)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
