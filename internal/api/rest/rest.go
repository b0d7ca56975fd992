package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	{
		// Farmer endpoints
		farmer := api.Group("/farmer")
		{
			farmer.GET("/balance/:address", handler.GetFarmerBalances)
			farmer.GET("/balance/:address/grove/:groveId", handler.GetFarmerGroveBalance)
			farmer.POST("/withdraw", handler.Withdraw)
			farmer.GET("/withdrawals/:address", handler.GetWithdrawalHistory)
		}

		// Investor endpoints
		investor := api.Group("/investor")
		{
			investor.GET("/balance/:address", handler.GetInvestorBalance)
			investor.GET("/earnings/unclaimed/:address", handler.GetUnclaimedEarnings)
			investor.POST("/claim", handler.Claim)
			investor.GET("/claims/:address", handler.GetClaimHistory)
		}
	}
}
