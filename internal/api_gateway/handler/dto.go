package handler

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agentpay-wallet-ledger/internal/domain/gaming"
	"github.com/agentpay-wallet-ledger/internal/domain/payout"
	"github.com/agentpay-wallet-ledger/internal/domain/txlog"
	"github.com/agentpay-wallet-ledger/internal/domain/wallet"
)

// TransferRequest represents a request to move funds to another agent
type TransferRequest struct {
	ReceiverID string          `json:"receiver_id" binding:"required,uuid"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// PayoutRequest represents a request to withdraw funds externally
type PayoutRequest struct {
	Amount             decimal.Decimal `json:"amount" binding:"required"`
	DestinationAddress string          `json:"destination_address" binding:"required"`
}

// GameSessionRequest represents a casino session settlement
type GameSessionRequest struct {
	GameType     string          `json:"game_type" binding:"required"`
	BetAmount    decimal.Decimal `json:"bet_amount"`
	PayoutAmount decimal.Decimal `json:"payout_amount"`
	OutcomeData  json.RawMessage `json:"outcome_data,omitempty"`
}

// BalanceResponse represents a wallet in API responses
type BalanceResponse struct {
	AgentID          string `json:"agent_id"`
	Balance          string `json:"balance"`
	TotalEarnings    string `json:"total_earnings"`
	LastWithdrawalAt string `json:"last_withdrawal_at,omitempty"`
	UpdatedAt        string `json:"updated_at"`
}

// TransactionResponse represents a transaction record in API responses
type TransactionResponse struct {
	ID        string `json:"id"`
	BuyerID   string `json:"buyer_id,omitempty"`
	SellerID  string `json:"seller_id,omitempty"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	Type      string `json:"type"`
	ListingID string `json:"listing_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

// PayoutResponse represents a payout request in API responses
type PayoutResponse struct {
	ID                 string `json:"id"`
	AgentID            string `json:"agent_id"`
	Amount             string `json:"amount"`
	DestinationAddress string `json:"destination_address"`
	Status             string `json:"status"`
	TxHash             string `json:"tx_hash,omitempty"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

// GameSessionResponse represents a game session audit row in API responses
type GameSessionResponse struct {
	ID           string          `json:"id"`
	AgentID      string          `json:"agent_id"`
	GameType     string          `json:"game_type"`
	BetAmount    string          `json:"bet_amount"`
	PayoutAmount string          `json:"payout_amount"`
	Profit       string          `json:"profit"`
	OutcomeData  json.RawMessage `json:"outcome_data,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

func toBalanceResponse(a *wallet.Account) BalanceResponse {
	resp := BalanceResponse{
		AgentID:       a.AgentID.String(),
		Balance:       a.Balance.String(),
		TotalEarnings: a.TotalEarnings.String(),
		UpdatedAt:     a.UpdatedAt.Format(time.RFC3339),
	}
	if a.LastWithdrawalAt != nil {
		resp.LastWithdrawalAt = a.LastWithdrawalAt.Format(time.RFC3339)
	}
	return resp
}

func toTransactionResponse(r *txlog.Record) TransactionResponse {
	resp := TransactionResponse{
		ID:        r.ID.String(),
		Amount:    r.Amount.String(),
		Currency:  r.Currency,
		Status:    string(r.Status),
		Type:      string(r.Type),
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
	if r.BuyerID != nil {
		resp.BuyerID = r.BuyerID.String()
	}
	if r.SellerID != nil {
		resp.SellerID = r.SellerID.String()
	}
	if r.ListingID != nil {
		resp.ListingID = r.ListingID.String()
	}
	return resp
}

func toTransactionResponses(records []*txlog.Record) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toTransactionResponse(r))
	}
	return out
}

func toPayoutResponse(p *payout.Payout) PayoutResponse {
	return PayoutResponse{
		ID:                 p.ID.String(),
		AgentID:            p.AgentID.String(),
		Amount:             p.Amount.String(),
		DestinationAddress: p.DestinationAddress,
		Status:             string(p.Status),
		TxHash:             p.TxHash,
		CreatedAt:          p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          p.UpdatedAt.Format(time.RFC3339),
	}
}

func toPayoutResponses(payouts []*payout.Payout) []PayoutResponse {
	out := make([]PayoutResponse, 0, len(payouts))
	for _, p := range payouts {
		out = append(out, toPayoutResponse(p))
	}
	return out
}

func toGameSessionResponse(s *gaming.Session) GameSessionResponse {
	return GameSessionResponse{
		ID:           s.ID.String(),
		AgentID:      s.AgentID.String(),
		GameType:     s.GameType,
		BetAmount:    s.BetAmount.String(),
		PayoutAmount: s.PayoutAmount.String(),
		Profit:       s.Profit().String(),
		OutcomeData:  s.OutcomeData,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
	}
}

func toGameSessionResponses(sessions []*gaming.Session) []GameSessionResponse {
	out := make([]GameSessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toGameSessionResponse(s))
	}
	return out
}
