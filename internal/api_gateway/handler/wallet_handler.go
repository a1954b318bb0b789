package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agentpay-wallet-ledger/internal/api_gateway/middleware"
	"github.com/agentpay-wallet-ledger/internal/api_gateway/service"
)

// WalletHandler handles HTTP requests for wallet operations
type WalletHandler struct {
	ledgerService  service.LedgerService
	historyService service.HistoryService
	logger         *slog.Logger
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(logger *slog.Logger, ledgerService service.LedgerService, historyService service.HistoryService) *WalletHandler {
	return &WalletHandler{
		ledgerService:  ledgerService,
		historyService: historyService,
		logger:         logger,
	}
}

// GetBalance returns the caller's wallet, creating it on first access
func (h *WalletHandler) GetBalance(c *gin.Context) {
	agentID, ok := middleware.GetAgentID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	acc, err := h.ledgerService.GetBalance(c.Request.Context(), agentID)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondOK(c, toBalanceResponse(acc))
}

// Transfer moves funds from the caller to another agent
func (h *WalletHandler) Transfer(c *gin.Context) {
	agentID, ok := middleware.GetAgentID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		RespondBadRequest(c, "Invalid receiver ID")
		return
	}

	record, err := h.ledgerService.Transfer(c.Request.Context(), agentID, receiverID, req.Amount)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondCreated(c, toTransactionResponse(record))
}

// ListTransactions returns the caller's transaction history, newest first
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	agentID, ok := middleware.GetAgentID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}
	offset := (params.Page - 1) * params.PerPage

	records, total, err := h.ledgerService.ListTransactions(c.Request.Context(), agentID, params.PerPage, offset)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondWithPaginatedData(c, 200, toTransactionResponses(records), params.Page, params.PerPage, int(total))
}

// RequestPayout debits the caller's wallet and enqueues a payout
func (h *WalletHandler) RequestPayout(c *gin.Context) {
	agentID, ok := middleware.GetAgentID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	p, err := h.ledgerService.RequestPayout(c.Request.Context(), agentID, req.Amount, req.DestinationAddress)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	// The debit is committed but the external disbursement is still pending
	RespondAccepted(c, toPayoutResponse(p))
}

// ListPayouts returns the caller's payout requests, newest first
func (h *WalletHandler) ListPayouts(c *gin.Context) {
	agentID, ok := middleware.GetAgentID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}
	offset := (params.Page - 1) * params.PerPage

	payouts, total, err := h.ledgerService.ListPayouts(c.Request.Context(), agentID, params.PerPage, offset)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondWithPaginatedData(c, 200, toPayoutResponses(payouts), params.Page, params.PerPage, int(total))
}

// GetPayout returns one payout request. Agents can only see their own.
func (h *WalletHandler) GetPayout(c *gin.Context) {
	agentID, ok := middleware.GetAgentID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid payout ID")
		return
	}

	p, err := h.ledgerService.GetPayout(c.Request.Context(), id)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}
	if p.AgentID != agentID {
		RespondNotFound(c, "Payout not found")
		return
	}

	RespondOK(c, toPayoutResponse(p))
}

// GetSettlements returns the caller's settlement history projection
func (h *WalletHandler) GetSettlements(c *gin.Context) {
	agentID, ok := middleware.GetAgentID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}
	offset := (params.Page - 1) * params.PerPage

	entries, total, err := h.historyService.GetSettlementHistory(c.Request.Context(), agentID, params.PerPage, offset)
	if err != nil {
		h.logger.Error("Failed to get settlement history", "agent_id", agentID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondWithPaginatedData(c, 200, entries, params.Page, params.PerPage, int(total))
}
