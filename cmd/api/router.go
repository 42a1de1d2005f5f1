package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-agent/internal/credstore"
	dispatchDelivery "storefront-agent/internal/dispatch/delivery"
	sessionDelivery "storefront-agent/internal/session/delivery"
)

func SetupRoutes(r *gin.Engine, store *credstore.Store, sessionHandler *sessionDelivery.SessionHandler, notificationHandler *dispatchDelivery.NotificationHandler) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Session routes. Login and refresh establish a session, so they are
		// open; profile requires one.
		session := api.Group("/session")
		{
			session.POST("/login", sessionHandler.Login)
			session.POST("/refresh", sessionHandler.Refresh)
			session.POST("/logout", sessionHandler.Logout)
			session.GET("/profile", sessionDelivery.AuthMiddleware(store), sessionHandler.Profile)
		}

		// Notification routes. Registration runs before login (the handle is
		// attached to the login request), and the event ingress comes from the
		// local shell, so neither is token-guarded.
		notifications := api.Group("/notifications")
		{
			notifications.POST("/register", notificationHandler.Register)
			notifications.POST("/event", notificationHandler.Event)

			protected := notifications.Group("")
			protected.Use(sessionDelivery.AuthMiddleware(store))
			{
				protected.POST("/send", notificationHandler.Send)
				protected.POST("/promo", notificationHandler.Promotional)
				protected.POST("/product", notificationHandler.NewProduct)
				protected.POST("/flash-sale", notificationHandler.FlashSale)
				protected.POST("/order-status", notificationHandler.OrderStatus)
			}
		}
	}
}
