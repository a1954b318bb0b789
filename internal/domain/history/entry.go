package history

import (
	"time"

	"github.com/agentpay-wallet-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Entry is a settlement history document projected from settlement events.
// It is a read model; the authoritative records live in PostgreSQL.
type Entry struct {
	EventID       uuid.UUID        `bson:"event_id" json:"event_id"`
	EventType     shared.EventType `bson:"event_type" json:"event_type"`
	AgentID       uuid.UUID        `bson:"agent_id" json:"agent_id"`
	PeerID        *uuid.UUID       `bson:"peer_id,omitempty" json:"peer_id,omitempty"`
	Amount        string           `bson:"amount" json:"amount"`
	Currency      string           `bson:"currency" json:"currency"`
	ReferenceID   uuid.UUID        `bson:"reference_id" json:"reference_id"`
	Destination   string           `bson:"destination,omitempty" json:"destination,omitempty"`
	Detail        string           `bson:"detail,omitempty" json:"detail,omitempty"`
	OccurredAt    time.Time        `bson:"occurred_at" json:"occurred_at"`
	CorrelationID string           `bson:"correlation_id,omitempty" json:"correlation_id,omitempty"`
}

// NewEntry builds a history entry from a settlement event
func NewEntry(event *shared.SettlementEvent) *Entry {
	return &Entry{
		EventID:       event.EventID,
		EventType:     event.Type,
		AgentID:       event.AgentID,
		PeerID:        event.PeerID,
		Amount:        event.Amount.String(),
		Currency:      event.Currency,
		ReferenceID:   event.ReferenceID,
		Destination:   event.Destination,
		Detail:        string(event.Detail),
		OccurredAt:    event.OccurredAt,
		CorrelationID: event.CorrelationID,
	}
}
