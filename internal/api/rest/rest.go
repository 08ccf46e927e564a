package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes.
// auth guards new registrations and registrationLimit throttles them. The signer endpoint is unauthenticated
// so any proof collector of the federation can poll it.
func SetupRoutes(router *gin.Engine, handler Handler, auth gin.HandlerFunc, registrationLimit gin.HandlerFunc) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		// Signer endpoint polled by proof collectors
		v1.POST("/proofs", handler.RequestProof)

		// Registrations
		v1.POST("/registrations", auth, registrationLimit, handler.Register)
		v1.GET("/registrations/:account_id", handler.GetRegistration)

		// Address pool and governor state (public read access)
		v1.GET("/addresses/free", handler.GetFreeAddresses)
		v1.GET("/withdrawal-limit", handler.GetWithdrawalLimit)
	}
}
