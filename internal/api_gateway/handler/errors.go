package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/agentpay-wallet-ledger/internal/domain/agent"
	"github.com/agentpay-wallet-ledger/internal/domain/gaming"
	"github.com/agentpay-wallet-ledger/internal/domain/listing"
	"github.com/agentpay-wallet-ledger/internal/domain/payout"
	"github.com/agentpay-wallet-ledger/internal/domain/wallet"
)

// respondLedgerError maps domain errors to HTTP status codes. Anything not
// recognized is a server fault and logged as such.
func respondLedgerError(c *gin.Context, logger *slog.Logger, err error) {
	var (
		agentNotFound   agent.ErrAgentNotFound
		accountNotFound wallet.ErrAccountNotFound
		payoutNotFound  payout.ErrPayoutNotFound
		listingNotFound listing.ErrListingNotFound
		listingSold     listing.ErrListingSold
	)

	switch {
	case errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrSelfTransfer),
		errors.Is(err, payout.ErrInvalidDestination),
		errors.Is(err, gaming.ErrInvalidGameType),
		errors.Is(err, listing.ErrSelfPurchase):
		RespondBadRequest(c, err.Error())
	case errors.Is(err, wallet.ErrInsufficientFunds):
		RespondUnprocessable(c, "INSUFFICIENT_FUNDS", err.Error())
	case errors.As(err, &agentNotFound),
		errors.As(err, &accountNotFound),
		errors.As(err, &payoutNotFound),
		errors.As(err, &listingNotFound):
		RespondNotFound(c, err.Error())
	case errors.As(err, &listingSold):
		RespondConflict(c, err.Error())
	default:
		logger.Error("Unhandled ledger error", "error", err)
		RespondInternalError(c)
	}
}
