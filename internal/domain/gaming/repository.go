package gaming

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages game session audit rows
type Repository interface {
	Create(ctx context.Context, session *Session) error
	ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*Session, error)
	WithTx(tx pgx.Tx) Repository
}
