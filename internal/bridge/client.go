// Package bridge talks to the native shell's localhost endpoint, which fronts
// the OS notification APIs the agent cannot reach directly.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront-agent/internal/registrar"
)

// Client implements the registrar's OS-facing interfaces and the dispatcher's
// local notifier against the bridge HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type permissionResponse struct {
	Status string `json:"status"` // granted | denied | undetermined
}

func parsePermission(status string) registrar.Permission {
	switch status {
	case "granted":
		return registrar.PermissionGranted
	case "denied":
		return registrar.PermissionDenied
	default:
		return registrar.PermissionUndetermined
	}
}

// Status queries the current notification permission without prompting.
func (c *Client) Status(ctx context.Context) (registrar.Permission, error) {
	var body permissionResponse
	if err := c.do(ctx, http.MethodGet, "/permissions/notifications", nil, &body); err != nil {
		return registrar.PermissionUndetermined, err
	}
	return parsePermission(body.Status), nil
}

// Request triggers a single OS permission prompt and reports the outcome.
func (c *Client) Request(ctx context.Context) (registrar.Permission, error) {
	var body permissionResponse
	if err := c.do(ctx, http.MethodPost, "/permissions/notifications/request", nil, &body); err != nil {
		return registrar.PermissionUndetermined, err
	}
	return parsePermission(body.Status), nil
}

// PushHandle asks the platform notification service for this installation's
// handle, scoped by the application project identifier.
func (c *Client) PushHandle(ctx context.Context, projectID string) (string, error) {
	payload := map[string]string{"projectId": projectID}
	var body struct {
		Handle string `json:"handle"`
	}
	if err := c.do(ctx, http.MethodPost, "/push/handle", payload, &body); err != nil {
		return "", err
	}
	if body.Handle == "" {
		return "", fmt.Errorf("bridge returned an empty push handle")
	}
	return body.Handle, nil
}

// EnsureChannel creates or updates the delivery channel. The bridge treats
// this as an upsert, so repeated calls are harmless.
func (c *Client) EnsureChannel(ctx context.Context, cfg registrar.ChannelConfig) error {
	return c.do(ctx, http.MethodPost, "/channels", cfg, nil)
}

// Display schedules an immediate on-device notification, no trigger delay.
func (c *Client) Display(ctx context.Context, title, body string, data map[string]any) error {
	payload := map[string]any{
		"title": title,
		"body":  body,
		"data":  data,
	}
	return c.do(ctx, http.MethodPost, "/notifications/display", payload, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var reqBody *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode bridge request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create bridge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bridge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("bridge returned status %d for %s", resp.StatusCode, path)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode bridge response: %w", err)
	}
	return nil
}
