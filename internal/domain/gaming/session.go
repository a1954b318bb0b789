package gaming

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidGameType indicates a blank game type
var ErrInvalidGameType = errors.New("game type cannot be empty")

// Session is the audit row for one casino game session. Exactly one row is
// written per settled session, whether the agent won, lost or broke even.
type Session struct {
	ID           uuid.UUID       `json:"id"`
	AgentID      uuid.UUID       `json:"agent_id"`
	GameType     string          `json:"game_type"`
	BetAmount    decimal.Decimal `json:"bet_amount"`
	PayoutAmount decimal.Decimal `json:"payout_amount"`
	OutcomeData  json.RawMessage `json:"outcome_data,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewSession builds a session audit row
func NewSession(agentID uuid.UUID, gameType string, bet, payout decimal.Decimal, outcome json.RawMessage) *Session {
	return &Session{
		ID:           uuid.New(),
		AgentID:      agentID,
		GameType:     gameType,
		BetAmount:    bet,
		PayoutAmount: payout,
		OutcomeData:  outcome,
		CreatedAt:    time.Now(),
	}
}

// Profit is the net balance effect of the session
func (s *Session) Profit() decimal.Decimal {
	return s.PayoutAmount.Sub(s.BetAmount)
}
