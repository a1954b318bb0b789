package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agentpay-wallet-ledger/internal/api_gateway/handler"
	"github.com/agentpay-wallet-ledger/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	walletHandler *handler.WalletHandler,
	marketplaceHandler *handler.MarketplaceHandler,
	casinoHandler *handler.CasinoHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints, all scoped to the calling agent
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AgentIdentity())
	{
		wallet := v1.Group("/wallet")
		{
			wallet.GET("/balance", walletHandler.GetBalance)
			wallet.POST("/transfer", walletHandler.Transfer)
			wallet.GET("/transactions", walletHandler.ListTransactions)
			wallet.POST("/payouts", walletHandler.RequestPayout)
			wallet.GET("/payouts", walletHandler.ListPayouts)
			wallet.GET("/payouts/:id", walletHandler.GetPayout)
			wallet.GET("/settlements", walletHandler.GetSettlements)
		}

		marketplace := v1.Group("/marketplace")
		{
			marketplace.POST("/listings/:id/purchase", marketplaceHandler.Purchase)
		}

		casino := v1.Group("/casino")
		{
			casino.POST("/sessions", casinoHandler.RecordSession)
			casino.GET("/sessions", casinoHandler.ListSessions)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
