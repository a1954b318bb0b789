package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agentpay-wallet-ledger/internal/domain/gaming"
	"github.com/agentpay-wallet-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GameSessionRepository implements the gaming.Repository interface for
// PostgreSQL
type GameSessionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewGameSessionRepository creates a new PostgreSQL game session repository
func NewGameSessionRepository(logger *slog.Logger, db *persistence.PostgresDB) gaming.Repository {
	return &GameSessionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *GameSessionRepository) WithTx(tx pgx.Tx) gaming.Repository {
	return &GameSessionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a session audit row
func (r *GameSessionRepository) Create(ctx context.Context, session *gaming.Session) error {
	query := `
		INSERT INTO game_sessions (id, agent_id, game_type, bet_amount, payout_amount, outcome_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		session.ID,
		session.AgentID,
		session.GameType,
		session.BetAmount,
		session.PayoutAmount,
		session.OutcomeData,
		session.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create game session", "id", session.ID.String(), "error", err)
		return fmt.Errorf("failed to create game session: %w", err)
	}

	return nil
}

// ListByAgent retrieves the agent's sessions, newest first
func (r *GameSessionRepository) ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*gaming.Session, error) {
	query := `
		SELECT id, agent_id, game_type, bet_amount, payout_amount, outcome_data, created_at
		FROM game_sessions
		WHERE agent_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, agentID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list game sessions", "agent_id", agentID.String(), "error", err)
		return nil, fmt.Errorf("failed to list game sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*gaming.Session
	for rows.Next() {
		var s gaming.Session
		err := rows.Scan(
			&s.ID,
			&s.AgentID,
			&s.GameType,
			&s.BetAmount,
			&s.PayoutAmount,
			&s.OutcomeData,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game session: %w", err)
		}
		sessions = append(sessions, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list game sessions: %w", err)
	}

	return sessions, nil
}
