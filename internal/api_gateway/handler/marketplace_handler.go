package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agentpay-wallet-ledger/internal/api_gateway/middleware"
	"github.com/agentpay-wallet-ledger/internal/api_gateway/service"
)

// MarketplaceHandler handles HTTP requests for marketplace settlement
type MarketplaceHandler struct {
	ledgerService service.LedgerService
	logger        *slog.Logger
}

// NewMarketplaceHandler creates a new marketplace handler
func NewMarketplaceHandler(logger *slog.Logger, ledgerService service.LedgerService) *MarketplaceHandler {
	return &MarketplaceHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// Purchase settles the purchase of a listing by the calling agent. The
// listing flips to sold exactly once; a second buyer gets a conflict.
func (h *MarketplaceHandler) Purchase(c *gin.Context) {
	buyerID, ok := middleware.GetAgentID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	idParam := c.Param("id")
	listingID, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid listing ID")
		return
	}

	record, err := h.ledgerService.SettlePurchase(c.Request.Context(), buyerID, listingID)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondCreated(c, toTransactionResponse(record))
}
