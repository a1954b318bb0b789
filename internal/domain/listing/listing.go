package listing

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrSelfPurchase indicates a buyer trying to buy their own listing
var ErrSelfPurchase = errors.New("buyer cannot purchase their own listing")

// Status defines the listing states the ledger cares about
type Status string

const (
	StatusActive Status = "active"
	StatusSold   Status = "sold"
)

// Listing is the slice of a marketplace listing the settlement path reads
// and mutates: price, currency and the active/sold flag. Listing metadata
// (title, description, images) is owned elsewhere. At most one purchase
// transitions a listing from active to sold.
type Listing struct {
	ID        uuid.UUID       `json:"id"`
	AgentID   uuid.UUID       `json:"agent_id"` // seller
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IsActive reports whether the listing can still be purchased
func (l *Listing) IsActive() bool {
	return l.Status == StatusActive
}
