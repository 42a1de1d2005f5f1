package dispatch

import (
	"context"
	"log"

	"storefront-agent/pkg/expo"
)

// Notification type discriminators carried in every data payload.
const (
	TypePromotion         = "promotion"
	TypeNewProduct        = "new_product"
	TypeFlashSale         = "flash_sale"
	TypeOrderStatus       = "order_status"
	TypeLoginSuccess      = "login_success"
	TypeLogoutSuccess     = "logout_success"
	TypeOrderConfirmation = "order_confirmation"
)

// HandleSource yields this installation's stored push handle, "" when the
// device never registered.
type HandleSource interface {
	PushHandle() string
}

// LocalNotifier displays an immediate on-device notification with no trigger
// delay. Used by the composers that never touch the network.
type LocalNotifier interface {
	Display(ctx context.Context, title, body string, data map[string]any) error
}

// Dispatcher composes notification payloads for the storefront's business
// events and hands them to a delivery provider. Messages live only for the
// duration of one send call.
type Dispatcher struct {
	deliverer Deliverer
	store     HandleSource
	local     LocalNotifier
}

func NewDispatcher(deliverer Deliverer, store HandleSource, local LocalNotifier) *Dispatcher {
	return &Dispatcher{deliverer: deliverer, store: store, local: local}
}

// Send fans title/body/data out to the given handles, one message per handle,
// all sharing default sound and high priority. Handles the provider cannot
// address are skipped with a log line. The provider's response is returned
// verbatim.
func (d *Dispatcher) Send(ctx context.Context, handles []string, title, body string, data map[string]any) (*expo.Response, error) {
	messages := make([]expo.Message, 0, len(handles))
	for _, handle := range handles {
		if handle == "" {
			continue
		}
		if !d.deliverer.ValidHandle(handle) {
			log.Printf("[Dispatch] skipping handle with invalid format")
			continue
		}
		messages = append(messages, expo.Message{
			To:       handle,
			Sound:    "default",
			Title:    title,
			Body:     body,
			Data:     data,
			Priority: "high",
		})
	}

	if len(messages) == 0 {
		log.Printf("[Dispatch] no valid handles, nothing sent")
		return nil, nil
	}
	return d.deliverer.Send(ctx, messages)
}

// SendToDevice targets the locally registered installation. Notifications are
// best effort: no stored handle means a silent no-op, never an error.
func (d *Dispatcher) SendToDevice(ctx context.Context, title, body string, data map[string]any) (*expo.Response, error) {
	handle := d.store.PushHandle()
	if handle == "" {
		log.Printf("[Dispatch] no push handle registered, skipping %q", title)
		return nil, nil
	}
	return d.Send(ctx, []string{handle}, title, body, data)
}
