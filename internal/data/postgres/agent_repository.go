package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agentpay-wallet-ledger/internal/domain/agent"
	"github.com/agentpay-wallet-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AgentRepository implements the agent.Repository interface for PostgreSQL
type AgentRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewAgentRepository creates a new PostgreSQL agent repository
func NewAgentRepository(logger *slog.Logger, db *persistence.PostgresDB) agent.Repository {
	return &AgentRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *AgentRepository) WithTx(tx pgx.Tx) agent.Repository {
	return &AgentRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// GetByID retrieves an agent identity by its ID
func (r *AgentRepository) GetByID(ctx context.Context, id uuid.UUID) (*agent.Agent, error) {
	query := `
		SELECT id, handle, created_at
		FROM agents
		WHERE id = $1
	`

	var a agent.Agent
	err := r.querier.QueryRow(ctx, query, id).Scan(&a.ID, &a.Handle, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, agent.ErrAgentNotFound{AgentID: id}
		}
		r.logger.Error("Failed to get agent", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}

	return &a, nil
}

// Exists reports whether the agent identity is known to the platform
func (r *AgentRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM agents WHERE id = $1)`

	var exists bool
	if err := r.querier.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.logger.Error("Failed to check agent existence", "id", id.String(), "error", err)
		return false, fmt.Errorf("failed to check agent existence: %w", err)
	}

	return exists, nil
}
