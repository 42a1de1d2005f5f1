package dispatch

import (
	"context"
	"fmt"
	"log"

	"storefront-agent/pkg/expo"
)

// Promotional announces a discount campaign to this installation.
func (d *Dispatcher) Promotional(ctx context.Context, title, message, discountCode string) (*expo.Response, error) {
	return d.SendToDevice(ctx, title, message, map[string]any{
		"type":         TypePromotion,
		"discountCode": discountCode,
	})
}

// NewProduct announces a catalog addition.
func (d *Dispatcher) NewProduct(ctx context.Context, name, productID string, price float64) (*expo.Response, error) {
	body := fmt.Sprintf("Check out our new product: %s", name)
	return d.SendToDevice(ctx, "New Product Alert! 🆕", body, map[string]any{
		"type":      TypeNewProduct,
		"productId": productID,
		"price":     price,
	})
}

// FlashSale announces a time-boxed sale.
func (d *Dispatcher) FlashSale(ctx context.Context, title string, percent int, endTime string) (*expo.Response, error) {
	body := fmt.Sprintf("%s - %d%% off! Ends at %s", title, percent, endTime)
	return d.SendToDevice(ctx, "⚡ Flash Sale Alert!", body, map[string]any{
		"type":     TypeFlashSale,
		"title":    title,
		"discount": percent,
		"endTime":  endTime,
	})
}

type orderStatusTemplate struct {
	title string
	body  string // format string taking the order id, and for shipped the ETA
}

var orderStatusTemplates = map[string]orderStatusTemplate{
	"confirmed": {"Order Confirmed! ✅", "Your order #%s has been confirmed."},
	"shipped":   {"Order Shipped! 📦", "Your order #%s is on the way! Estimated delivery: %s"},
	"delivered": {"Order Delivered! 🎉", "Your order #%s has been delivered. Enjoy!"},
	"cancelled": {"Order Cancelled", "Your order #%s has been cancelled."},
}

// OrderStatus notifies about an order transition. Unrecognized statuses fall
// back to a generic phrase rather than failing.
func (d *Dispatcher) OrderStatus(ctx context.Context, orderID, status, estimatedDelivery string) (*expo.Response, error) {
	title := "Order Update"
	body := fmt.Sprintf("Your order #%s status updated to: %s", orderID, status)

	if tpl, ok := orderStatusTemplates[status]; ok {
		title = tpl.title
		if status == "shipped" {
			body = fmt.Sprintf(tpl.body, orderID, estimatedDelivery)
		} else {
			body = fmt.Sprintf(tpl.body, orderID)
		}
	}

	return d.SendToDevice(ctx, title, body, map[string]any{
		"type":              TypeOrderStatus,
		"orderId":           orderID,
		"status":            status,
		"estimatedDelivery": estimatedDelivery,
	})
}

// LoginSuccess shows an immediate local notification; it never leaves the
// device.
func (d *Dispatcher) LoginSuccess(ctx context.Context, name string) {
	body := "You have signed in successfully."
	if name != "" {
		body = fmt.Sprintf("Welcome back, %s!", name)
	}
	d.displayLocal(ctx, "Welcome back! 👋", body, map[string]any{"type": TypeLoginSuccess})
}

// LogoutSuccess shows an immediate local notification.
func (d *Dispatcher) LogoutSuccess(ctx context.Context) {
	d.displayLocal(ctx, "Signed out", "You have been logged out. See you soon!", map[string]any{
		"type": TypeLogoutSuccess,
	})
}

// OrderConfirmation shows an immediate local notification after checkout.
func (d *Dispatcher) OrderConfirmation(ctx context.Context, orderID string, total float64) {
	body := fmt.Sprintf("Your order #%s (%.2f) has been placed.", orderID, total)
	d.displayLocal(ctx, "Order Placed! 🛒", body, map[string]any{
		"type":    TypeOrderConfirmation,
		"orderId": orderID,
		"total":   total,
	})
}

func (d *Dispatcher) displayLocal(ctx context.Context, title, body string, data map[string]any) {
	if d.local == nil {
		log.Printf("[Dispatch] no local notifier configured, skipping %q", title)
		return
	}
	if err := d.local.Display(ctx, title, body, data); err != nil {
		log.Printf("[Dispatch] failed to display local notification: %v", err)
	}
}
