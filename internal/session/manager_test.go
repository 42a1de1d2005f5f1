package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	token   string
	handle  string
	expired bool
	cleared bool
}

func (f *fakeStore) Token() string {
	if f.expired {
		return ""
	}
	return f.token
}
func (f *fakeStore) RawToken() string      { return f.token }
func (f *fakeStore) SetToken(token string) { f.token = token }
func (f *fakeStore) PushHandle() string    { return f.handle }
func (f *fakeStore) Clear()                { f.cleared = true; f.token = ""; f.handle = "" }

type fakeBackend struct {
	fresh      string
	refreshErr error
	revokeErr  error
	refreshed  int
	revoked    int
}

func (f *fakeBackend) RefreshToken(ctx context.Context, old string) (string, error) {
	f.refreshed++
	return f.fresh, f.refreshErr
}

func (f *fakeBackend) RevokeDeviceToken(ctx context.Context, token, handle string) error {
	f.revoked++
	return f.revokeErr
}

func fixedInspector(t *testing.T, now time.Time) *Inspector {
	t.Helper()
	return NewInspector(func() time.Time { return now })
}

func TestRefreshIfNeededUnexpiredSkipsNetwork(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	token := signedToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})

	store := &fakeStore{}
	backend := &fakeBackend{fresh: "should-not-be-used"}
	manager := NewManager(store, fixedInspector(t, now), backend)

	got, err := manager.RefreshIfNeeded(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, token, got)
	assert.Zero(t, backend.refreshed)
}

func TestRefreshIfNeededExpiredStoresFreshToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	old := signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()})

	store := &fakeStore{}
	backend := &fakeBackend{fresh: "fresh-token"}
	manager := NewManager(store, fixedInspector(t, now), backend)

	got, err := manager.RefreshIfNeeded(context.Background(), old)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", got)
	assert.Equal(t, "fresh-token", store.token)
	assert.Equal(t, 1, backend.refreshed)
}

func TestRefreshIfNeededFailureMeansReauthenticate(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	old := signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()})

	store := &fakeStore{}
	backend := &fakeBackend{refreshErr: errors.New("boom")}
	manager := NewManager(store, fixedInspector(t, now), backend)

	got, err := manager.RefreshIfNeeded(context.Background(), old)
	assert.Empty(t, got)
	assert.ErrorIs(t, err, ErrRefreshFailed)
	assert.Empty(t, store.token)
}

func TestLogoutRevokesAndClears(t *testing.T) {
	store := &fakeStore{token: "tok", handle: "ExponentPushToken[abc]"}
	backend := &fakeBackend{}
	manager := NewManager(store, NewInspector(nil), backend)

	manager.Logout(context.Background())

	assert.Equal(t, 1, backend.revoked)
	assert.True(t, store.cleared)
}

func TestLogoutClearsEvenWhenRevocationFails(t *testing.T) {
	store := &fakeStore{token: "tok", handle: "ExponentPushToken[abc]"}
	backend := &fakeBackend{revokeErr: errors.New("network down")}
	manager := NewManager(store, NewInspector(nil), backend)

	manager.Logout(context.Background())

	assert.True(t, store.cleared)
}

func TestCurrentTokenRefreshesExpiredStoredToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	old := signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()})

	store := &fakeStore{token: old, expired: true}
	backend := &fakeBackend{fresh: "fresh-token"}
	manager := NewManager(store, fixedInspector(t, now), backend)

	got, err := manager.CurrentToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", got)
}

func TestCurrentTokenNoStoredTokenFails(t *testing.T) {
	store := &fakeStore{}
	manager := NewManager(store, NewInspector(nil), &fakeBackend{})

	_, err := manager.CurrentToken(context.Background())
	assert.ErrorIs(t, err, ErrRefreshFailed)
}
