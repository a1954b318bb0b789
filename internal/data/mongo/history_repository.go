package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agentpay-wallet-ledger/internal/domain/history"
)

const (
	// HistoryCollectionName is the name of the settlement history collection in MongoDB
	HistoryCollectionName = "settlement_history"
)

// HistoryRepository implements the history.Repository interface for MongoDB
type HistoryRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewHistoryRepository creates a new MongoDB settlement history repository
func NewHistoryRepository(logger *slog.Logger, db *mongo.Database) history.Repository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new history entry after checking for duplicates.
// Returns ErrDuplicateEntry if an entry with the same event ID exists,
// which keeps redelivered settlement events from producing double rows.
func (r *HistoryRepository) Create(ctx context.Context, entry *history.Entry) error {
	collection := r.db.Collection(HistoryCollectionName)

	existingEntry, err := r.GetByEventID(ctx, entry.EventID)
	if err != nil && !errors.Is(err, history.ErrEntryNotFound{EventID: entry.EventID}) {
		r.logger.Error("Failed to check for existing history entry",
			"event_id", entry.EventID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing history entry: %w", err)
	}

	if existingEntry != nil {
		return history.ErrDuplicateEntry{EventID: entry.EventID}
	}

	_, err = collection.InsertOne(ctx, entry)
	if err != nil {
		r.logger.Error("Failed to create history entry",
			"event_id", entry.EventID.String(),
			"error", err)
		return fmt.Errorf("failed to create history entry: %w", err)
	}

	return nil
}

// GetByEventID retrieves a history entry by its event ID.
// Returns ErrEntryNotFound if no entry exists for the given event.
func (r *HistoryRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) (*history.Entry, error) {
	collection := r.db.Collection(HistoryCollectionName)

	filter := bson.M{"event_id": eventID}
	var entry history.Entry
	err := collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, history.ErrEntryNotFound{EventID: eventID}
		}
		r.logger.Error("Failed to get history entry",
			"event_id", eventID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get history entry: %w", err)
	}

	return &entry, nil
}

// GetByAgentID retrieves paginated history entries for an agent.
// Results are sorted by occurrence time in descending order (newest first).
func (r *HistoryRepository) GetByAgentID(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*history.Entry, error) {
	collection := r.db.Collection(HistoryCollectionName)

	filter := bson.M{"agent_id": agentID}
	opts := options.Find().
		SetSort(bson.M{"occurred_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get history entries",
			"agent_id", agentID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get history entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*history.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode history entries",
			"agent_id", agentID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode history entries: %w", err)
	}

	return entries, nil
}

// CountByAgentID counts the total number of history entries for an agent
func (r *HistoryRepository) CountByAgentID(ctx context.Context, agentID uuid.UUID) (int64, error) {
	collection := r.db.Collection(HistoryCollectionName)

	filter := bson.M{"agent_id": agentID}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count history entries",
			"agent_id", agentID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count history entries: %w", err)
	}

	return count, nil
}
