package txlog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages the append-only transaction log. There is no update
// or delete; history is immutable once committed.
type Repository interface {
	Append(ctx context.Context, record *Record) error

	// ListByAgent returns records where the agent appears on either side,
	// newest first.
	ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*Record, error)
	CountByAgent(ctx context.Context, agentID uuid.UUID) (int64, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrRecordNotFound indicates a missing transaction record
type ErrRecordNotFound struct {
	ID uuid.UUID
}

func (e ErrRecordNotFound) Error() string {
	return "transaction record not found: " + e.ID.String()
}
