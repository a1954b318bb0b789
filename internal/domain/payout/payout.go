package payout

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidDestination indicates a blank destination address
var ErrInvalidDestination = errors.New("destination address cannot be empty")

// Status defines the payout lifecycle. pending -> completed | failed,
// both terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Payout is a request to move ledger balance to an external destination.
// The ledger debit happens when the row is created; the status transition
// is driven by the disbursement process once the external movement is
// attempted.
type Payout struct {
	ID                 uuid.UUID       `json:"id"`
	AgentID            uuid.UUID       `json:"agent_id"`
	Amount             decimal.Decimal `json:"amount"`
	DestinationAddress string          `json:"destination_address"`
	Status             Status          `json:"status"`
	TxHash             string          `json:"tx_hash,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// NewPayout builds a pending payout request
func NewPayout(agentID uuid.UUID, amount decimal.Decimal, destinationAddress string) (*Payout, error) {
	destinationAddress = strings.TrimSpace(destinationAddress)
	if destinationAddress == "" {
		return nil, ErrInvalidDestination
	}
	now := time.Now()
	return &Payout{
		ID:                 uuid.New(),
		AgentID:            agentID,
		Amount:             amount,
		DestinationAddress: destinationAddress,
		Status:             StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// IsTerminal reports whether no further transition is allowed
func (p *Payout) IsTerminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusFailed
}
