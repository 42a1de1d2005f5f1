package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureFileRequiresDeviceSecret(t *testing.T) {
	_, err := NewSecureFile(filepath.Join(t.TempDir(), "secure.bin"), "")
	assert.Error(t, err)
}

func TestSecureFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secure.bin")
	store, err := NewSecureFile(path, "device-secret")
	require.NoError(t, err)

	require.NoError(t, store.Set("auth_token", "tok"))

	value, err := store.Get("auth_token")
	require.NoError(t, err)
	assert.Equal(t, "tok", value)

	// Value must not be readable from the raw file.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "tok")
}

func TestSecureFileDelete(t *testing.T) {
	store, err := NewSecureFile(filepath.Join(t.TempDir(), "secure.bin"), "device-secret")
	require.NoError(t, err)

	require.NoError(t, store.Set("auth_token", "tok"))
	require.NoError(t, store.Delete("auth_token"))

	value, err := store.Get("auth_token")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestSecureFileWrongSecretCannotRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secure.bin")

	store, err := NewSecureFile(path, "device-secret")
	require.NoError(t, err)
	require.NoError(t, store.Set("auth_token", "tok"))

	other, err := NewSecureFile(path, "different-secret")
	require.NoError(t, err)

	_, err = other.Get("auth_token")
	assert.Error(t, err)
}

func TestSecureFileSetRestartsOnCorruptContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secure.bin")
	store, err := NewSecureFile(path, "device-secret")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("not a valid ciphertext blob"), 0600))

	require.NoError(t, store.Set("auth_token", "tok"))

	value, err := store.Get("auth_token")
	require.NoError(t, err)
	assert.Equal(t, "tok", value)
}

func TestSecureFileSetPropagatesReadFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secure.bin")
	store, err := NewSecureFile(path, "device-secret")
	require.NoError(t, err)

	require.NoError(t, store.Set("auth_token", "tok"))
	require.NoError(t, store.Set("push_handle", "ExponentPushToken[abc]"))

	// A path that exists but cannot be read is a transient failure, not
	// corruption; the write must fail instead of discarding the other keys.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0700))
	assert.Error(t, store.Set("auth_token", "tok2"))
}

func TestChainDeleteAttemptsAllTiers(t *testing.T) {
	first := newMemBackend()
	second := newMemBackend()
	first.values["k"] = "v1"
	second.values["k"] = "v2"

	chain := NewChain(first, second)
	require.NoError(t, chain.Delete("k"))

	assert.Empty(t, first.values["k"])
	assert.Empty(t, second.values["k"])
}
