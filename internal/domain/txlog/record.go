package txlog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordType defines the kinds of value movements the log tracks
type RecordType string

const (
	RecordTypeP2PTransfer RecordType = "p2p_transfer"
	RecordTypePurchase    RecordType = "purchase"
)

// RecordStatus defines transaction record states. Records written by the
// ledger are always completed at creation; the other states exist for
// compatibility with readers of the table.
type RecordStatus string

const (
	RecordStatusPending   RecordStatus = "pending"
	RecordStatusCompleted RecordStatus = "completed"
	RecordStatusFailed    RecordStatus = "failed"
)

// Record is one completed value movement. Rows are append-only and
// immutable once committed; a record is written only inside the unit of
// work that performs the corresponding mutation.
type Record struct {
	ID        uuid.UUID       `json:"id"`
	BuyerID   *uuid.UUID      `json:"buyer_id,omitempty"`
	SellerID  *uuid.UUID      `json:"seller_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    RecordStatus    `json:"status"`
	Type      RecordType      `json:"type"`
	ListingID *uuid.UUID      `json:"listing_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewTransfer builds a completed p2p transfer record. The sender maps to
// the buyer side, the receiver to the seller side.
func NewTransfer(senderID, receiverID uuid.UUID, amount decimal.Decimal, currency string) *Record {
	return &Record{
		ID:        uuid.New(),
		BuyerID:   &senderID,
		SellerID:  &receiverID,
		Amount:    amount,
		Currency:  currency,
		Status:    RecordStatusCompleted,
		Type:      RecordTypeP2PTransfer,
		CreatedAt: time.Now(),
	}
}

// NewPurchase builds a completed marketplace purchase record
func NewPurchase(buyerID, sellerID, listingID uuid.UUID, price decimal.Decimal, currency string) *Record {
	return &Record{
		ID:        uuid.New(),
		BuyerID:   &buyerID,
		SellerID:  &sellerID,
		Amount:    price,
		Currency:  currency,
		Status:    RecordStatusCompleted,
		Type:      RecordTypePurchase,
		ListingID: &listingID,
		CreatedAt: time.Now(),
	}
}
