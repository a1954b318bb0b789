package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agentpay-wallet-ledger/internal/domain/listing"
	"github.com/agentpay-wallet-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListingRepository implements the listing.Repository interface for
// PostgreSQL. Only the settlement-relevant slice of a listing is handled
// here; metadata CRUD lives outside the ledger.
type ListingRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewListingRepository creates a new PostgreSQL listing repository
func NewListingRepository(logger *slog.Logger, db *persistence.PostgresDB) listing.Repository {
	return &ListingRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *ListingRepository) WithTx(tx pgx.Tx) listing.Repository {
	return &ListingRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const listingColumns = `id, agent_id, price, currency, status, created_at, updated_at`

func scanListing(row pgx.Row) (*listing.Listing, error) {
	var l listing.Listing
	err := row.Scan(
		&l.ID,
		&l.AgentID,
		&l.Price,
		&l.Currency,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByID retrieves a listing without locking it
func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE id = $1
	`

	l, err := scanListing(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, listing.ErrListingNotFound{ID: id}
		}
		r.logger.Error("Failed to get listing", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return l, nil
}

// LockForUpdate obtains an exclusive lock on the listing row so concurrent
// purchases serialize. Must be called inside a transaction.
func (r *ListingRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	query := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE id = $1
		FOR UPDATE
	`

	l, err := scanListing(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, listing.ErrListingNotFound{ID: id}
		}
		r.logger.Error("Failed to lock listing for update", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to lock listing for update: %w", err)
	}

	return l, nil
}

// MarkSold flips active -> sold. The status predicate guarantees at most one
// successful transition per listing.
func (r *ListingRepository) MarkSold(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE listings
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := r.querier.Exec(ctx, query, listing.StatusSold, id, listing.StatusActive)
	if err != nil {
		r.logger.Error("Failed to mark listing sold", "id", id.String(), "error", err)
		return fmt.Errorf("failed to mark listing sold: %w", err)
	}

	if result.RowsAffected() == 0 {
		return listing.ErrListingSold{ID: id}
	}

	return nil
}
