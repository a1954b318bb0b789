package shared

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType identifies the settlement event carried by an outbox message
type EventType string

const (
	EventTypeTransferCompleted   EventType = "transfer_completed"
	EventTypePayoutRequested     EventType = "payout_requested"
	EventTypePurchaseSettled     EventType = "purchase_settled"
	EventTypeGameSessionRecorded EventType = "game_session_recorded"
)

// SettlementEvent is the message emitted for every committed unit of work.
// It is written to the outbox table in the same transaction as the ledger
// mutation and later published to Kafka, so consumers see exactly the
// settlements that actually committed.
type SettlementEvent struct {
	EventID       uuid.UUID       `json:"event_id"`
	Type          EventType       `json:"type"`
	AgentID       uuid.UUID       `json:"agent_id"`
	PeerID        *uuid.UUID      `json:"peer_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	ReferenceID   uuid.UUID       `json:"reference_id"` // transaction, payout or session id
	Destination   string          `json:"destination,omitempty"`
	Detail        json.RawMessage `json:"detail,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

// OutboxStatus defines outbox message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
