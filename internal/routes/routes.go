package routes

import (
	"net/http"

	"cobfacil_backend/internal/handlers"
	"cobfacil_backend/internal/logger"
	"cobfacil_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers every HTTP and WebSocket route.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.Handler,
) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.BillingHandler.RegisterRoutes(api)
		appHandlers.ChatHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
		appHandlers.WalletHandler.RegisterRoutes(api)
		appHandlers.ReferralHandler.RegisterRoutes(api)
	}

	// The socket is open at upgrade time. Identity is established by the
	// first auth frame, not by a header, so no auth middleware here.
	ginRouter.GET("/ws", wsHandler.ServeWS)

	logger.Info("Routes registered")
}
