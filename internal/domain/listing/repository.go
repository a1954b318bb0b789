package listing

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines the listing operations used by purchase settlement
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)

	// LockForUpdate acquires an exclusive row lock so concurrent purchases
	// of the same listing serialize.
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Listing, error)

	// MarkSold flips active -> sold. Zero rows affected surfaces
	// ErrListingSold, so a second settlement can never succeed.
	MarkSold(ctx context.Context, id uuid.UUID) error

	WithTx(tx pgx.Tx) Repository
}

// ErrListingNotFound indicates a missing listing row
type ErrListingNotFound struct {
	ID uuid.UUID
}

func (e ErrListingNotFound) Error() string {
	return "listing not found: " + e.ID.String()
}

// ErrListingSold indicates the listing was already sold
type ErrListingSold struct {
	ID uuid.UUID
}

func (e ErrListingSold) Error() string {
	return "listing already sold: " + e.ID.String()
}
