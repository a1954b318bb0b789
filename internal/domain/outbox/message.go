package outbox

import (
	"encoding/json"
	"time"

	"github.com/agentpay-wallet-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Message stores a settlement event for reliable publishing. Rows are
// inserted in the same database transaction as the ledger mutation they
// describe; the poller turns pending rows into Kafka messages.
type Message struct {
	ID            int64               `json:"id"`
	EventID       uuid.UUID           `json:"event_id"`
	AgentID       uuid.UUID           `json:"agent_id"`
	EventType     shared.EventType    `json:"event_type"`
	Payload       json.RawMessage     `json:"payload"`
	Status        shared.OutboxStatus `json:"status"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

func NewMessage(event *shared.SettlementEvent) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &Message{
		EventID:   event.EventID,
		AgentID:   event.AgentID,
		EventType: event.Type,
		Payload:   payload,
		Status:    shared.OutboxStatusPending,
		Attempts:  0,
		CreatedAt: time.Now(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = shared.OutboxStatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = shared.OutboxStatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// GetEvent extracts the settlement event from the payload
func (m *Message) GetEvent() (*shared.SettlementEvent, error) {
	var event shared.SettlementEvent
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
