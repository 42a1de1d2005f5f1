package credstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/hkdf"
)

// SecureFile is the secure tier: a single AES-GCM encrypted file holding a
// key-value map. The cipher key is derived from the device secret with
// HKDF-SHA256, so the file is unreadable without the secret.
type SecureFile struct {
	mu   sync.Mutex
	path string
	aead cipher.AEAD
}

func NewSecureFile(path, deviceSecret string) (*SecureFile, error) {
	if deviceSecret == "" {
		return nil, errors.New("device secret is required for the secure tier")
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(deviceSecret), nil, []byte("credstore-secure-tier"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive secure tier key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCM: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create secure tier directory: %w", err)
	}

	return &SecureFile{path: path, aead: aead}, nil
}

func (s *SecureFile) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (s *SecureFile) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if errors.Is(err, errCorrupt) {
		// A corrupt file cannot be recovered; start over rather than hold
		// writes hostage. A plain read failure is transient and must not
		// trigger a rewrite that discards the other keys.
		values = map[string]string{}
	} else if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

func (s *SecureFile) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

// errCorrupt marks contents that can never decrypt or decode again, as
// opposed to a read failure that may succeed on retry.
var errCorrupt = errors.New("secure tier file is corrupt")

func (s *SecureFile) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read secure tier file: %w", err)
	}

	nonceSize := s.aead.NonceSize()
	if len(raw) < nonceSize {
		return nil, fmt.Errorf("%w: truncated", errCorrupt)
	}

	plaintext, err := s.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(plaintext, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	return values, nil
}

func (s *SecureFile) save(values map[string]string) error {
	plaintext, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode secure tier contents: %w", err)
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := s.aead.Seal(nonce, nonce, plaintext, nil)
	if err := os.WriteFile(s.path, ciphertext, 0600); err != nil {
		return fmt.Errorf("failed to write secure tier file: %w", err)
	}
	return nil
}
