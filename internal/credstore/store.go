package credstore

import (
	"encoding/json"
	"log"
)

const (
	tokenKey      = "auth_token"
	profileKey    = "user_profile"
	pushHandleKey = "push_handle"
)

// Profile mirrors the account fields served by the backend. It is never
// authoritative; every sign-in or profile fetch overwrites it.
type Profile struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
	Gender string `json:"gender"`
}

// ExpiryChecker reports whether a stored token should be treated as absent.
type ExpiryChecker interface {
	IsExpired(token string) bool
}

// Store persists the auth token, user profile and push handle. The token
// prefers the secure tier and degrades to the fallback tier; profile and
// handle live in the fallback tier only. None of the write paths surface
// errors to callers: sign-in completion must never be blocked by storage.
type Store struct {
	tokens Backend
	plain  Backend
	expiry ExpiryChecker
}

// New builds a Store. A nil secure tier (unavailable enclave) is legal and
// leaves the token on the fallback tier alone.
func New(secure, fallback Backend, expiry ExpiryChecker) *Store {
	tokens := fallback
	if secure != nil {
		tokens = NewChain(secure, fallback)
	}
	return &Store{tokens: tokens, plain: fallback, expiry: expiry}
}

func (s *Store) SetToken(token string) {
	if err := s.tokens.Set(tokenKey, token); err != nil {
		log.Printf("[CredStore] failed to persist auth token: %v", err)
	}
}

// Token returns the stored auth token, or "" when no tier holds one or the
// held value is expired. Expiry is enforced at read time; the raw value is
// left in place.
func (s *Store) Token() string {
	value, err := s.tokens.Get(tokenKey)
	if err != nil {
		log.Printf("[CredStore] failed to read auth token: %v", err)
		return ""
	}
	if value == "" {
		return ""
	}
	if s.expiry != nil && s.expiry.IsExpired(value) {
		return ""
	}
	return value
}

// RawToken returns whatever the tiers hold without the expiry check. The
// refresh flow needs the expired value as its bearer credential.
func (s *Store) RawToken() string {
	value, err := s.tokens.Get(tokenKey)
	if err != nil {
		log.Printf("[CredStore] failed to read auth token: %v", err)
		return ""
	}
	return value
}

func (s *Store) SetProfile(profile *Profile) {
	raw, err := json.Marshal(profile)
	if err != nil {
		log.Printf("[CredStore] failed to encode profile: %v", err)
		return
	}
	if err := s.plain.Set(profileKey, string(raw)); err != nil {
		log.Printf("[CredStore] failed to persist profile: %v", err)
	}
}

func (s *Store) Profile() *Profile {
	raw, err := s.plain.Get(profileKey)
	if err != nil {
		log.Printf("[CredStore] failed to read profile: %v", err)
		return nil
	}
	if raw == "" {
		return nil
	}
	var profile Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		log.Printf("[CredStore] failed to decode profile: %v", err)
		return nil
	}
	return &profile
}

func (s *Store) SetPushHandle(handle string) {
	if err := s.plain.Set(pushHandleKey, handle); err != nil {
		log.Printf("[CredStore] failed to persist push handle: %v", err)
	}
}

func (s *Store) PushHandle() string {
	value, err := s.plain.Get(pushHandleKey)
	if err != nil {
		log.Printf("[CredStore] failed to read push handle: %v", err)
		return ""
	}
	return value
}

// Clear wipes token, profile and push handle. Each delete is attempted even
// when an earlier one fails; failures are logged, never raised. A failed
// delete is retried as an overwrite with the empty value so a read after
// Clear never resurrects credentials.
func (s *Store) Clear() {
	s.wipe(s.tokens, tokenKey)
	s.wipe(s.plain, profileKey)
	s.wipe(s.plain, pushHandleKey)
}

func (s *Store) wipe(tier Backend, key string) {
	err := tier.Delete(key)
	if err == nil {
		return
	}
	log.Printf("[CredStore] failed to delete %q, blanking instead: %v", key, err)
	if err := tier.Set(key, ""); err != nil {
		log.Printf("[CredStore] failed to blank %q: %v", key, err)
	}
}
