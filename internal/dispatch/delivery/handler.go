package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-agent/internal/dispatch"
	"storefront-agent/internal/listener"
	"storefront-agent/internal/registrar"
)

// NotificationHandler exposes push registration, dispatch and the listener
// ingress to the UI shell.
type NotificationHandler struct {
	registrar  *registrar.Registrar
	dispatcher *dispatch.Dispatcher
	registry   *listener.Registry
}

func NewNotificationHandler(reg *registrar.Registrar, dispatcher *dispatch.Dispatcher, registry *listener.Registry) *NotificationHandler {
	return &NotificationHandler{registrar: reg, dispatcher: dispatcher, registry: registry}
}

// Register runs the push-registration flow. A denied permission is a 403 with
// no handle; the UI treats that as "registration unavailable", not a crash.
func (h *NotificationHandler) Register(c *gin.Context) {
	handle, err := h.registrar.Register(c.Request.Context())
	if errors.Is(err, registrar.ErrPermissionDenied) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "notification permission denied"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "handle": handle})
}

type sendRequest struct {
	Handles []string       `json:"handles" binding:"required"`
	Title   string         `json:"title"`
	Body    string         `json:"body" binding:"required"`
	Data    map[string]any `json:"data"`
}

func (h *NotificationHandler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	resp, err := h.dispatcher.Send(c.Request.Context(), req.Handles, req.Title, req.Body, req.Data)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "receipt": resp})
}

type promoRequest struct {
	Title        string `json:"title" binding:"required"`
	Message      string `json:"message" binding:"required"`
	DiscountCode string `json:"discountCode"`
}

func (h *NotificationHandler) Promotional(c *gin.Context) {
	var req promoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	resp, err := h.dispatcher.Promotional(c.Request.Context(), req.Title, req.Message, req.DiscountCode)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "receipt": resp})
}

type productRequest struct {
	Name      string  `json:"name" binding:"required"`
	ProductID string  `json:"productId" binding:"required"`
	Price     float64 `json:"price"`
}

func (h *NotificationHandler) NewProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	resp, err := h.dispatcher.NewProduct(c.Request.Context(), req.Name, req.ProductID, req.Price)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "receipt": resp})
}

// Discount carries no required binding: gin rejects zero values for required
// fields, and a 0% discount is a legal payload.
type flashSaleRequest struct {
	Title    string `json:"title" binding:"required"`
	Discount int    `json:"discount"`
	EndTime  string `json:"endTime"`
}

func (h *NotificationHandler) FlashSale(c *gin.Context) {
	var req flashSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	resp, err := h.dispatcher.FlashSale(c.Request.Context(), req.Title, req.Discount, req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "receipt": resp})
}

type orderStatusRequest struct {
	OrderID           string `json:"orderId" binding:"required"`
	Status            string `json:"status" binding:"required"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}

func (h *NotificationHandler) OrderStatus(c *gin.Context) {
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	resp, err := h.dispatcher.OrderStatus(c.Request.Context(), req.OrderID, req.Status, req.EstimatedDelivery)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "receipt": resp})
}

type eventRequest struct {
	Event        string                `json:"event" binding:"required"`
	Notification listener.Notification `json:"notification"`
}

// Event is the HTTP ingress for platform notification events, the alternative
// to the Pub/Sub source.
func (h *NotificationHandler) Event(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	switch req.Event {
	case listener.EventReceived:
		h.registry.HandleReceived(req.Notification)
	case listener.EventResponse:
		h.registry.HandleResponse(req.Notification)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown event kind"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
