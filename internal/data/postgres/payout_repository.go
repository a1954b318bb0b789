package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agentpay-wallet-ledger/internal/domain/payout"
	"github.com/agentpay-wallet-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PayoutRepository implements the payout.Repository interface for PostgreSQL
type PayoutRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewPayoutRepository creates a new PostgreSQL payout queue repository
func NewPayoutRepository(logger *slog.Logger, db *persistence.PostgresDB) payout.Repository {
	return &PayoutRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *PayoutRepository) WithTx(tx pgx.Tx) payout.Repository {
	return &PayoutRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new payout request. Status is forced to pending regardless
// of what the caller set.
func (r *PayoutRepository) Create(ctx context.Context, p *payout.Payout) error {
	p.Status = payout.StatusPending

	query := `
		INSERT INTO payouts (id, agent_id, amount, destination_address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		p.ID,
		p.AgentID,
		p.Amount,
		p.DestinationAddress,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create payout", "id", p.ID.String(), "error", err)
		return fmt.Errorf("failed to create payout: %w", err)
	}

	return nil
}

const payoutColumns = `id, agent_id, amount, destination_address, status, tx_hash, created_at, updated_at`

func scanPayout(row pgx.Row) (*payout.Payout, error) {
	var p payout.Payout
	var txHash *string
	err := row.Scan(
		&p.ID,
		&p.AgentID,
		&p.Amount,
		&p.DestinationAddress,
		&p.Status,
		&txHash,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if txHash != nil {
		p.TxHash = *txHash
	}
	return &p, nil
}

// GetByID retrieves a payout by its ID
func (r *PayoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*payout.Payout, error) {
	query := `
		SELECT ` + payoutColumns + `
		FROM payouts
		WHERE id = $1
	`

	p, err := scanPayout(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payout.ErrPayoutNotFound{ID: id}
		}
		r.logger.Error("Failed to get payout", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get payout: %w", err)
	}

	return p, nil
}

// ListByAgent retrieves the agent's payouts, newest first
func (r *PayoutRepository) ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*payout.Payout, error) {
	query := `
		SELECT ` + payoutColumns + `
		FROM payouts
		WHERE agent_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, agentID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list payouts", "agent_id", agentID.String(), "error", err)
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	defer rows.Close()

	var payouts []*payout.Payout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payout: %w", err)
		}
		payouts = append(payouts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}

	return payouts, nil
}

// CountByAgent counts the agent's payout rows
func (r *PayoutRepository) CountByAgent(ctx context.Context, agentID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM payouts WHERE agent_id = $1`

	var count int64
	if err := r.querier.QueryRow(ctx, query, agentID).Scan(&count); err != nil {
		r.logger.Error("Failed to count payouts", "agent_id", agentID.String(), "error", err)
		return 0, fmt.Errorf("failed to count payouts: %w", err)
	}

	return count, nil
}

// MarkCompleted transitions pending -> completed and records the external
// transaction hash. The status predicate makes terminal states final: zero
// rows affected means the payout is missing or no longer pending.
func (r *PayoutRepository) MarkCompleted(ctx context.Context, id uuid.UUID, txHash string) error {
	query := `
		UPDATE payouts
		SET status = $1, tx_hash = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	result, err := r.querier.Exec(ctx, query, payout.StatusCompleted, txHash, id, payout.StatusPending)
	if err != nil {
		r.logger.Error("Failed to mark payout completed", "id", id.String(), "error", err)
		return fmt.Errorf("failed to mark payout completed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return payout.ErrPayoutNotPending{ID: id}
	}

	return nil
}

// MarkFailed transitions pending -> failed
func (r *PayoutRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE payouts
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := r.querier.Exec(ctx, query, payout.StatusFailed, id, payout.StatusPending)
	if err != nil {
		r.logger.Error("Failed to mark payout failed", "id", id.String(), "error", err)
		return fmt.Errorf("failed to mark payout failed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return payout.ErrPayoutNotPending{ID: id}
	}

	return nil
}
