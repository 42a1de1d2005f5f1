package api

import (
	"github.com/gin-gonic/gin"

	"storefront-agent/internal/credstore"
	dispatchDelivery "storefront-agent/internal/dispatch/delivery"
	sessionDelivery "storefront-agent/internal/session/delivery"
)

type Handler struct {
	store               *credstore.Store
	sessionHandler      *sessionDelivery.SessionHandler
	notificationHandler *dispatchDelivery.NotificationHandler
}

func NewHandler(store *credstore.Store, sessionHandler *sessionDelivery.SessionHandler, notificationHandler *dispatchDelivery.NotificationHandler) *Handler {
	return &Handler{
		store:               store,
		sessionHandler:      sessionHandler,
		notificationHandler: notificationHandler,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware for the local UI shell
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.store, h.sessionHandler, h.notificationHandler)

	return r.Run(addr)
}
