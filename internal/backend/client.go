package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to the remote storefront backend. Every request carries the
// shared timeout; a hung backend must not hang a device flow forever.
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

// DeviceToken is one row from the backend's device-token listing. Entries for
// installations that never registered for push carry an empty handle.
type DeviceToken struct {
	DeviceToken string `json:"device_token"`
}

type refreshResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type listTokensResponse struct {
	Success bool          `json:"success"`
	Data    []DeviceToken `json:"data"`
}

// RefreshToken exchanges an expired bearer token for a fresh one. Any
// transport error, non-2xx status, success:false, or missing token in the
// response is an error; there is no partial success.
func (c *Client) RefreshToken(ctx context.Context, old string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/refresh-token", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+old)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("refresh endpoint returned status %d", resp.StatusCode)
	}

	var body refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if !body.Success || body.Token == "" {
		return "", errors.New("refresh endpoint returned no usable token")
	}
	return body.Token, nil
}

// ListDeviceTokens fetches every registered device handle. Used only by the
// broadcast job, which fails fast on a success:false flag.
func (c *Client) ListDeviceTokens(ctx context.Context) ([]DeviceToken, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/user/getToken", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list tokens request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("list tokens endpoint returned status %d", resp.StatusCode)
	}

	var body listTokensResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode list tokens response: %w", err)
	}
	if !body.Success {
		return nil, errors.New("list tokens endpoint reported failure")
	}
	return body.Data, nil
}

// RevokeDeviceToken detaches this installation's push handle from the signed-in
// account. Called best-effort during logout.
func (c *Client) RevokeDeviceToken(ctx context.Context, token, handle string) error {
	payload, err := json.Marshal(map[string]string{"device_token": handle})
	if err != nil {
		return fmt.Errorf("failed to encode revoke request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/user/device-token", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create revoke request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoke request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("revoke endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
