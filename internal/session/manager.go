package session

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// ErrRefreshFailed means no valid token is available and the user must
// re-authenticate. Callers should not retry the refresh themselves.
var ErrRefreshFailed = errors.New("no valid token available")

// CredentialStore is the slice of the credential store the manager needs.
type CredentialStore interface {
	Token() string
	RawToken() string
	SetToken(token string)
	PushHandle() string
	Clear()
}

// Refresher exchanges an expired token for a fresh one at the backend.
type Refresher interface {
	RefreshToken(ctx context.Context, old string) (string, error)
	RevokeDeviceToken(ctx context.Context, token, handle string) error
}

// Manager drives the auth-token lifecycle. There is no background refresh
// loop; callers ask for a guaranteed-valid token right before they need one.
type Manager struct {
	store     CredentialStore
	inspector *Inspector
	backend   Refresher
}

func NewManager(store CredentialStore, inspector *Inspector, backend Refresher) *Manager {
	return &Manager{store: store, inspector: inspector, backend: backend}
}

// RefreshIfNeeded returns the token unchanged, with no network call, while it
// is still valid. An expired token is exchanged at the backend; the fresh
// token is persisted before it is returned. Any refresh failure is collapsed
// into ErrRefreshFailed.
func (m *Manager) RefreshIfNeeded(ctx context.Context, token string) (string, error) {
	if !m.inspector.IsExpired(token) {
		return token, nil
	}

	fresh, err := m.backend.RefreshToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	m.store.SetToken(fresh)
	return fresh, nil
}

// CurrentToken returns a usable token from the store, refreshing when the
// stored value has expired. "" with ErrRefreshFailed means re-authenticate.
func (m *Manager) CurrentToken(ctx context.Context) (string, error) {
	if token := m.store.Token(); token != "" {
		return token, nil
	}
	raw := m.store.RawToken()
	if raw == "" {
		return "", ErrRefreshFailed
	}
	return m.RefreshIfNeeded(ctx, raw)
}

// Logout revokes this installation's push handle at the backend, best effort,
// then wipes local credentials. The server-side revocation keeps pushes from
// reaching a logged-out device between now and the next login.
func (m *Manager) Logout(ctx context.Context) {
	token := m.store.RawToken()
	handle := m.store.PushHandle()
	if token != "" && handle != "" {
		if err := m.backend.RevokeDeviceToken(ctx, token, handle); err != nil {
			log.Printf("[Session] failed to revoke device token upstream: %v", err)
		}
	}
	m.store.Clear()
}

// HandleAuthRejected wipes local credentials after the backend rejects a
// token, forcing the next flow through re-authentication.
func (m *Manager) HandleAuthRejected() {
	log.Printf("[Session] backend rejected credentials, clearing local session")
	m.store.Clear()
}
