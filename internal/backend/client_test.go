package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokenSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/refresh-token", r.URL.Path)
		assert.Equal(t, "Bearer old-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"token":"new-token"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	token, err := client.RefreshToken(context.Background(), "old-token")
	require.NoError(t, err)
	assert.Equal(t, "new-token", token)
}

func TestRefreshTokenFailureModes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unsuccessful flag", http.StatusOK, `{"success":false}`},
		{"missing token", http.StatusOK, `{"success":true}`},
		{"server error", http.StatusInternalServerError, `{}`},
		{"unauthorized", http.StatusUnauthorized, `{"success":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, time.Second)
			token, err := client.RefreshToken(context.Background(), "old-token")
			assert.Error(t, err)
			assert.Empty(t, token)
		})
	}
}

func TestListDeviceTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/getToken", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":[{"device_token":"ExponentPushToken[a]"},{}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	tokens, err := client.ListDeviceTokens(context.Background())
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "ExponentPushToken[a]", tokens[0].DeviceToken)
	assert.Empty(t, tokens[1].DeviceToken)
}

func TestListDeviceTokensFailureFlag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"data":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.ListDeviceTokens(context.Background())
	assert.Error(t, err)
}

func TestRevokeDeviceToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/user/device-token", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	err := client.RevokeDeviceToken(context.Background(), "tok", "ExponentPushToken[a]")
	assert.NoError(t, err)
}
