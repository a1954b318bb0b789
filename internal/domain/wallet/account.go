package wallet

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSelfTransfer      = errors.New("sender and receiver must differ")
)

// Account holds an agent's wallet balance and cumulative earnings.
// The balance is never allowed to go negative; every mutation happens
// under a row lock inside a unit of work.
type Account struct {
	AgentID          uuid.UUID       `json:"agent_id"`
	Balance          decimal.Decimal `json:"balance"`
	TotalEarnings    decimal.Decimal `json:"total_earnings"`
	LastWithdrawalAt *time.Time      `json:"last_withdrawal_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// NewAccount creates an empty wallet for the given agent
func NewAccount(agentID uuid.UUID) *Account {
	now := time.Now()
	return &Account{
		AgentID:       agentID,
		Balance:       decimal.Zero,
		TotalEarnings: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CanDebit checks whether the account covers the given amount
func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// Debit subtracts the amount from the balance
func (a *Account) Debit(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if !a.CanDebit(amount) {
		return ErrInsufficientFunds
	}
	a.Balance = a.Balance.Sub(amount)
	a.UpdatedAt = time.Now()
	return nil
}

// Credit adds the amount to the balance and counts it toward earnings
func (a *Account) Credit(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	a.TotalEarnings = a.TotalEarnings.Add(amount)
	a.UpdatedAt = time.Now()
	return nil
}
