package agent

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines agent directory lookups
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Agent, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrAgentNotFound indicates an unknown agent identity
type ErrAgentNotFound struct {
	AgentID uuid.UUID
}

func (e ErrAgentNotFound) Error() string {
	return "agent not found: " + e.AgentID.String()
}
