// Package fcm is the Firebase Cloud Messaging delivery provider, used for
// installations that register an FCM handle instead of an Expo one.
package fcm

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Client wraps the Firebase messaging client.
type Client struct {
	messagingClient *messaging.Client
}

// NewClient initializes Firebase with the given credentials file. An empty
// path falls back to application-default credentials.
func NewClient(credentialsFile string) (*Client, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Println("[FCM] client initialized")
	return &Client{messagingClient: messagingClient}, nil
}

// Result reports the outcome for one handle of a multicast send.
type Result struct {
	Handle   string
	Success  bool
	ErrorMsg string
}

// Send fans one notification out to the given handles. High-priority delivery
// matches what the Expo provider requests. Returns one Result per handle.
func (c *Client) Send(ctx context.Context, handles []string, title, body string, data map[string]string) ([]Result, error) {
	if len(handles) == 0 {
		return nil, nil
	}

	message := &messaging.MulticastMessage{
		Tokens: handles,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}

	response, err := c.messagingClient.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM multicast message: %w", err)
	}

	log.Printf("[FCM] multicast sent: %d success, %d failures", response.SuccessCount, response.FailureCount)

	results := make([]Result, len(handles))
	for i, resp := range response.Responses {
		results[i] = Result{Handle: handles[i], Success: resp.Success}
		if resp.Error != nil {
			results[i].ErrorMsg = resp.Error.Error()
		}
	}
	return results, nil
}
