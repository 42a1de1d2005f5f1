// Package expo wraps the Expo push-delivery HTTP endpoint.
package expo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const DefaultURL = "https://exp.host/--/api/v2/push/send"

// Message is one delivery unit addressed to a single push handle.
type Message struct {
	To       string         `json:"to"`
	Sound    string         `json:"sound,omitempty"`
	Title    string         `json:"title,omitempty"`
	Body     string         `json:"body"`
	Data     map[string]any `json:"data,omitempty"`
	Priority string         `json:"priority,omitempty"`
}

// Ticket is the per-message delivery receipt reported by the endpoint.
type Ticket struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details,omitempty"`
}

// Response is the endpoint's reply, passed through to callers verbatim. This
// layer does not interpret per-token errors.
type Response struct {
	Data   []Ticket         `json:"data"`
	Errors []map[string]any `json:"errors,omitempty"`
}

type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates an Expo push client. No credentials are required; the
// endpoint authorizes by push handle alone.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// IsValidHandle reports whether a string looks like an Expo push handle.
func IsValidHandle(handle string) bool {
	return strings.HasPrefix(handle, "ExponentPushToken[") || strings.HasPrefix(handle, "ExpoPushToken[")
}

// ValidHandle reports whether this provider can address the handle.
func (c *Client) ValidHandle(handle string) bool {
	return IsValidHandle(handle)
}

// Send submits the messages in one request. Exactly one message posts the bare
// object; two or more post the array. This mirrors the endpoint's dual
// single/batch submission contract.
func (c *Client) Send(ctx context.Context, messages []Message) (*Response, error) {
	if len(messages) == 0 {
		log.Printf("[Expo] nothing to send")
		return nil, nil
	}

	var payload []byte
	var err error
	if len(messages) == 1 {
		payload, err = json.Marshal(messages[0])
	} else {
		payload, err = json.Marshal(messages)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read push response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("push endpoint returned status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed Response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode push response: %w", err)
	}

	log.Printf("[Expo] delivered %d message(s), %d ticket(s)", len(messages), len(parsed.Data))
	return &parsed, nil
}
