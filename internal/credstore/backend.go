package credstore

import (
	"errors"
	"log"
)

// Backend is a single persistence tier. An absent key yields ("", nil);
// errors are reserved for tier failures (locked file, bad ciphertext, db errors).
type Backend interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Chain ranks backends and applies the fallback rule generically: writes go to
// the first tier that accepts them, reads return the first non-empty value,
// deletes are attempted on every tier.
type Chain struct {
	backends []Backend
}

func NewChain(backends ...Backend) *Chain {
	return &Chain{backends: backends}
}

func (c *Chain) Set(key, value string) error {
	var lastErr error
	for _, b := range c.backends {
		if err := b.Set(key, value); err != nil {
			log.Printf("[CredStore] tier write failed for %q, trying next tier: %v", key, err)
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("no backends configured")
	}
	return lastErr
}

func (c *Chain) Get(key string) (string, error) {
	for _, b := range c.backends {
		value, err := b.Get(key)
		if err != nil {
			log.Printf("[CredStore] tier read failed for %q, trying next tier: %v", key, err)
			continue
		}
		if value != "" {
			return value, nil
		}
	}
	return "", nil
}

func (c *Chain) Delete(key string) error {
	var errs []error
	for _, b := range c.backends {
		if err := b.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
