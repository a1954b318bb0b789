package agent

import (
	"time"

	"github.com/google/uuid"
)

// Agent is an identity known to the platform. Identity issuance and
// authentication live upstream; the ledger only checks existence so a
// transfer to an unknown receiver fails instead of minting a wallet for a
// typo.
type Agent struct {
	ID        uuid.UUID `json:"id"`
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"created_at"`
}
