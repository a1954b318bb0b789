package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/agentpay-wallet-ledger/internal/api_gateway/middleware"
	"github.com/agentpay-wallet-ledger/internal/api_gateway/service"
)

// CasinoHandler handles HTTP requests for game session settlement
type CasinoHandler struct {
	ledgerService service.LedgerService
	logger        *slog.Logger
}

// NewCasinoHandler creates a new casino handler
func NewCasinoHandler(logger *slog.Logger, ledgerService service.LedgerService) *CasinoHandler {
	return &CasinoHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// RecordSession settles one game session against the caller's wallet
func (h *CasinoHandler) RecordSession(c *gin.Context) {
	agentID, ok := middleware.GetAgentID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req GameSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	session, err := h.ledgerService.RecordGameSession(c.Request.Context(), agentID, req.GameType, req.BetAmount, req.PayoutAmount, req.OutcomeData)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondCreated(c, toGameSessionResponse(session))
}

// ListSessions returns the caller's game session history, newest first
func (h *CasinoHandler) ListSessions(c *gin.Context) {
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

	sessions, err := h.ledgerService.ListGameSessions(c.Request.Context(), agentID, params.PerPage, offset)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondOK(c, toGameSessionResponses(sessions))
}
