package dispatch

import (
	"context"
	"fmt"

	"storefront-agent/pkg/expo"
	"storefront-agent/pkg/fcm"
)

// Deliverer is a push-delivery provider. The Expo client satisfies it
// directly; other providers adapt to it. ValidHandle reports whether the
// provider can address a handle; handle formats are provider-specific, so the
// dispatcher never inspects them itself.
type Deliverer interface {
	Send(ctx context.Context, messages []expo.Message) (*expo.Response, error)
	ValidHandle(handle string) bool
}

type multicastSender interface {
	Send(ctx context.Context, handles []string, title, body string, data map[string]string) ([]fcm.Result, error)
}

// FCMDeliverer adapts the Firebase provider to the Deliverer contract so the
// dispatcher stays provider-agnostic.
type FCMDeliverer struct {
	client multicastSender
}

func NewFCMDeliverer(client *fcm.Client) *FCMDeliverer {
	return &FCMDeliverer{client: client}
}

// ValidHandle accepts any non-empty handle. FCM registration tokens are
// opaque strings with no documented prefix to check against.
func (d *FCMDeliverer) ValidHandle(handle string) bool {
	return handle != ""
}

func (d *FCMDeliverer) Send(ctx context.Context, messages []expo.Message) (*expo.Response, error) {
	if len(messages) == 0 {
		return nil, nil
	}

	// FCM multicast shares one title/body across handles; composer output is
	// uniform per call, so the first message is representative.
	first := messages[0]
	handles := make([]string, 0, len(messages))
	for _, m := range messages {
		handles = append(handles, m.To)
	}

	data := make(map[string]string, len(first.Data))
	for k, v := range first.Data {
		data[k] = fmt.Sprintf("%v", v)
	}

	results, err := d.client.Send(ctx, handles, first.Title, first.Body, data)
	if err != nil {
		return nil, err
	}

	out := &expo.Response{Data: make([]expo.Ticket, 0, len(results))}
	for _, r := range results {
		ticket := expo.Ticket{Status: "ok"}
		if !r.Success {
			ticket.Status = "error"
			ticket.Message = r.ErrorMsg
		}
		out.Data = append(out.Data, ticket)
	}
	return out, nil
}
