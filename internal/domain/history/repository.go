package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ErrEntryNotFound is returned when a history entry doesn't exist
type ErrEntryNotFound struct {
	EventID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return fmt.Sprintf("settlement history entry not found for event: %s", e.EventID)
}

// ErrDuplicateEntry is returned when an entry for the event already exists
type ErrDuplicateEntry struct {
	EventID uuid.UUID
}

func (e ErrDuplicateEntry) Error() string {
	return fmt.Sprintf("settlement history entry already exists for event: %s", e.EventID)
}

// Repository defines the interface for settlement history persistence
type Repository interface {
	// Create stores a new history entry.
	// Returns ErrDuplicateEntry if an entry with the same event ID exists.
	Create(ctx context.Context, entry *Entry) error

	// GetByEventID retrieves an entry by its event ID.
	// Returns ErrEntryNotFound if no entry exists.
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*Entry, error)

	// GetByAgentID retrieves paginated entries for an agent,
	// most recent first.
	GetByAgentID(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*Entry, error)

	// CountByAgentID counts the total number of entries for an agent
	CountByAgentID(ctx context.Context, agentID uuid.UUID) (int64, error)
}
