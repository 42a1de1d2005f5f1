// Package broadcast fans one notification out to every registered device.
package broadcast

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"storefront-agent/internal/backend"
	"storefront-agent/pkg/expo"
)

// TokenLister is the backend slice the job needs.
type TokenLister interface {
	ListDeviceTokens(ctx context.Context) ([]backend.DeviceToken, error)
}

// Deliverer submits the batched messages.
type Deliverer interface {
	Send(ctx context.Context, messages []expo.Message) (*expo.Response, error)
}

const (
	defaultTitle = "Test Notification 📣"
	defaultBody  = "This is a broadcast test from the storefront team."
)

// Run executes one broadcast: list handles, drop empty ones, send the batch.
// A backend failure aborts before anything is sent; an empty device list is a
// clean no-op. There are no retries.
func Run(ctx context.Context, lister TokenLister, deliverer Deliverer, title, body string) (*expo.Response, error) {
	if title == "" {
		title = defaultTitle
	}
	if body == "" {
		body = defaultBody
	}

	tokens, err := lister.ListDeviceTokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}

	batchID := uuid.New().String()
	messages := make([]expo.Message, 0, len(tokens))
	for _, t := range tokens {
		if t.DeviceToken == "" {
			continue
		}
		messages = append(messages, expo.Message{
			To:       t.DeviceToken,
			Sound:    "default",
			Title:    title,
			Body:     body,
			Data:     map[string]any{"type": "test", "batchId": batchID},
			Priority: "high",
		})
	}

	if len(messages) == 0 {
		log.Printf("[Broadcast] no registered devices, nothing to send")
		return nil, nil
	}

	log.Printf("[Broadcast] sending to %d device(s), batch %s", len(messages), batchID)
	return deliverer.Send(ctx, messages)
}
