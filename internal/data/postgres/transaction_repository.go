package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agentpay-wallet-ledger/internal/domain/txlog"
	"github.com/agentpay-wallet-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepository implements the txlog.Repository interface for
// PostgreSQL. The table is append-only; no update or delete is exposed.
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction log repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) txlog.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *TransactionRepository) WithTx(tx pgx.Tx) txlog.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Append stores a new transaction record, assigning an id if absent
func (r *TransactionRepository) Append(ctx context.Context, record *txlog.Record) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	query := `
		INSERT INTO transactions (id, buyer_id, seller_id, amount, currency, status, type, listing_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		record.ID,
		record.BuyerID,
		record.SellerID,
		record.Amount,
		record.Currency,
		record.Status,
		record.Type,
		record.ListingID,
		record.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append transaction record", "id", record.ID.String(), "error", err)
		return fmt.Errorf("failed to append transaction record: %w", err)
	}

	return nil
}

const transactionColumns = `id, buyer_id, seller_id, amount, currency, status, type, listing_id, created_at`

func scanRecord(row pgx.Row) (*txlog.Record, error) {
	var rec txlog.Record
	err := row.Scan(
		&rec.ID,
		&rec.BuyerID,
		&rec.SellerID,
		&rec.Amount,
		&rec.Currency,
		&rec.Status,
		&rec.Type,
		&rec.ListingID,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetByID retrieves a single transaction record
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*txlog.Record, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1
	`

	rec, err := scanRecord(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, txlog.ErrRecordNotFound{ID: id}
		}
		r.logger.Error("Failed to get transaction record", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction record: %w", err)
	}

	return rec, nil
}

// ListByAgent retrieves records where the agent appears as buyer or seller,
// newest first.
func (r *TransactionRepository) ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*txlog.Record, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE buyer_id = $1 OR seller_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, agentID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list transaction records", "agent_id", agentID.String(), "error", err)
		return nil, fmt.Errorf("failed to list transaction records: %w", err)
	}
	defer rows.Close()

	var records []*txlog.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transaction records: %w", err)
	}

	return records, nil
}

// CountByAgent counts the records where the agent appears on either side
func (r *TransactionRepository) CountByAgent(ctx context.Context, agentID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM transactions
		WHERE buyer_id = $1 OR seller_id = $1
	`

	var count int64
	if err := r.querier.QueryRow(ctx, query, agentID).Scan(&count); err != nil {
		r.logger.Error("Failed to count transaction records", "agent_id", agentID.String(), "error", err)
		return 0, fmt.Errorf("failed to count transaction records: %w", err)
	}

	return count, nil
}
