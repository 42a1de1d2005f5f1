package delivery

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-agent/internal/credstore"
	"storefront-agent/internal/dispatch"
	"storefront-agent/internal/session"
)

// SessionHandler exposes the session lifecycle to the UI shell.
type SessionHandler struct {
	store      *credstore.Store
	manager    *session.Manager
	dispatcher *dispatch.Dispatcher
}

func NewSessionHandler(store *credstore.Store, manager *session.Manager, dispatcher *dispatch.Dispatcher) *SessionHandler {
	return &SessionHandler{store: store, manager: manager, dispatcher: dispatcher}
}

type loginRequest struct {
	Token   string            `json:"token" binding:"required"`
	Profile credstore.Profile `json:"profile"`
}

// Login persists the credentials the UI obtained from the backend sign-in.
// Storage failures never fail the request; sign-in completion must not block
// on persistence.
func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "token is required"})
		return
	}

	h.store.SetToken(req.Token)
	h.store.SetProfile(&req.Profile)
	h.dispatcher.LoginSuccess(c.Request.Context(), req.Profile.Name)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Refresh exchanges an expired stored token for a fresh one. 401 means the
// user has to sign in again.
func (h *SessionHandler) Refresh(c *gin.Context) {
	raw := h.store.RawToken()
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "re-authentication required"})
		return
	}

	token, err := h.manager.RefreshIfNeeded(c.Request.Context(), raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "re-authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

func (h *SessionHandler) Logout(c *gin.Context) {
	h.manager.Logout(c.Request.Context())
	h.dispatcher.LogoutSuccess(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *SessionHandler) Profile(c *gin.Context) {
	profile := h.store.Profile()
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no profile stored"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": profile})
}

// AuthMiddleware guards routes that require a signed-in session: the Bearer
// token must match the stored, unexpired one.
func AuthMiddleware(store *credstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		stored := store.Token()
		if stored == "" || stored != parts[1] {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}
		c.Next()
	}
}
