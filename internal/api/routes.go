package api

import (
	"modernshop-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine) {
	// API route group
	api := r.Group("/api")
	{
		// Payment routes (the provider calls /callback, clients call the rest)
		payment := api.Group("/payment")
		payment.Use(middleware.UserContextMiddleware())
		{
			payment.POST("/initiate", InitiatePayment)
			payment.POST("/status", PaymentStatus)
			payment.POST("/callback", MpesaCallback)
			payment.POST("/link", LinkPayment)
			payment.GET("/debug-token", DebugToken)
		}

		// Storefront CRUD routes
		api.GET("/products", ListProducts)
		api.GET("/orders", ListOrders)
		api.POST("/orders", CreateOrder)
		api.POST("/collaborators", InviteCollaborator)
		api.GET("/collaborators", ListShopCollaborators)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "modernshop-api",
		})
	})
}
