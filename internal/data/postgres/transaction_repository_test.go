package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentpay-wallet-ledger/internal/domain/txlog"
)

func recordRows(records ...*txlog.Record) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "buyer_id", "seller_id", "amount", "currency", "status", "type", "listing_id", "created_at"})
	for _, rec := range records {
		rows.AddRow(rec.ID, rec.BuyerID, rec.SellerID, rec.Amount, rec.Currency, rec.Status, rec.Type, rec.ListingID, rec.CreatedAt)
	}
	return rows
}

func TestTransactionRepository_Append(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: logger}

	query := `
		INSERT INTO transactions \(id, buyer_id, seller_id, amount, currency, status, type, listing_id, created_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9\)
	`

	t.Run("transfer", func(t *testing.T) {
		rec := txlog.NewTransfer(uuid.New(), uuid.New(), decimal.NewFromInt(15), "USDC")

		mock.ExpectExec(query).
			WithArgs(rec.ID, rec.BuyerID, rec.SellerID, rec.Amount, rec.Currency, rec.Status, rec.Type, rec.ListingID, rec.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Append(ctx, rec)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("assigns_id_when_absent", func(t *testing.T) {
		rec := txlog.NewPurchase(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(99), "USDC")
		rec.ID = uuid.Nil

		mock.ExpectExec(query).
			WithArgs(pgxmock.AnyArg(), rec.BuyerID, rec.SellerID, rec.Amount, rec.Currency, rec.Status, rec.Type, rec.ListingID, rec.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Append(ctx, rec)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, rec.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: logger}
	id := uuid.New()

	query := `
		SELECT id, buyer_id, seller_id, amount, currency, status, type, listing_id, created_at
		FROM transactions
		WHERE id = \$1
	`

	t.Run("success", func(t *testing.T) {
		rec := txlog.NewTransfer(uuid.New(), uuid.New(), decimal.NewFromInt(5), "USDC")
		rec.ID = id

		mock.ExpectQuery(query).WithArgs(id).WillReturnRows(recordRows(rec))

		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, txlog.RecordTypeP2PTransfer, got.Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not_found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(id).WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, id)
		var notFound txlog.ErrRecordNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, id, notFound.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_ListByAgent(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: logger}
	agentID := uuid.New()

	query := `
		SELECT id, buyer_id, seller_id, amount, currency, status, type, listing_id, created_at
		FROM transactions
		WHERE buyer_id = \$1 OR seller_id = \$1
		ORDER BY created_at DESC
		LIMIT \$2 OFFSET \$3
	`

	newer := txlog.NewPurchase(agentID, uuid.New(), uuid.New(), decimal.NewFromInt(40), "USDC")
	older := txlog.NewTransfer(uuid.New(), agentID, decimal.NewFromInt(12), "USDC")
	older.CreatedAt = newer.CreatedAt.Add(-time.Hour)

	mock.ExpectQuery(query).WithArgs(agentID, 20, 0).WillReturnRows(recordRows(newer, older))

	records, err := repo.ListByAgent(ctx, agentID, 20, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, newer.ID, records[0].ID)
	assert.Equal(t, older.ID, records[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_CountByAgent(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: logger}
	agentID := uuid.New()

	query := `
		SELECT COUNT\(\*\)
		FROM transactions
		WHERE buyer_id = \$1 OR seller_id = \$1
	`

	mock.ExpectQuery(query).WithArgs(agentID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))

	count, err := repo.CountByAgent(ctx, agentID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
