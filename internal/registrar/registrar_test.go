package registrar

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	status    Permission
	requested Permission
	requests  int
}

func (f *fakeGateway) Status(ctx context.Context) (Permission, error) {
	return f.status, nil
}

func (f *fakeGateway) Request(ctx context.Context) (Permission, error) {
	f.requests++
	return f.requested, nil
}

type fakeProvider struct {
	handle string
	err    error
}

func (f *fakeProvider) PushHandle(ctx context.Context, projectID string) (string, error) {
	return f.handle, f.err
}

type fakeChannels struct {
	calls int
	last  ChannelConfig
}

func (f *fakeChannels) EnsureChannel(ctx context.Context, cfg ChannelConfig) error {
	f.calls++
	f.last = cfg
	return nil
}

type fakeHandleStore struct {
	handle string
	writes int
}

func (f *fakeHandleStore) SetPushHandle(handle string) {
	f.handle = handle
	f.writes++
}

func TestRegisterDeniedPersistsNothing(t *testing.T) {
	gateway := &fakeGateway{status: PermissionUndetermined, requested: PermissionDenied}
	store := &fakeHandleStore{}
	r := New(gateway, &fakeProvider{handle: "ExponentPushToken[abc]"}, &fakeChannels{}, store, "proj-1", "android")

	handle, err := r.Register(context.Background())

	assert.Empty(t, handle)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Zero(t, store.writes)
	assert.Equal(t, StateDenied, r.State())
}

func TestRegisterGrantedPersistsHandle(t *testing.T) {
	gateway := &fakeGateway{status: PermissionUndetermined, requested: PermissionGranted}
	store := &fakeHandleStore{}
	channels := &fakeChannels{}
	r := New(gateway, &fakeProvider{handle: "ExponentPushToken[abc]"}, channels, store, "proj-1", "android")

	handle, err := r.Register(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ExponentPushToken[abc]", handle)
	assert.Equal(t, "ExponentPushToken[abc]", store.handle)
	assert.Equal(t, StateRegistered, r.State())
	assert.Equal(t, 1, gateway.requests)
}

func TestRegisterAlreadyGrantedSkipsPrompt(t *testing.T) {
	gateway := &fakeGateway{status: PermissionGranted}
	store := &fakeHandleStore{}
	r := New(gateway, &fakeProvider{handle: "ExponentPushToken[abc]"}, &fakeChannels{}, store, "proj-1", "ios")

	_, err := r.Register(context.Background())

	require.NoError(t, err)
	assert.Zero(t, gateway.requests)
}

func TestRegisterConfiguresChannelOnAndroidOnly(t *testing.T) {
	for platform, wantCalls := range map[string]int{"android": 1, "ios": 0} {
		gateway := &fakeGateway{status: PermissionGranted}
		channels := &fakeChannels{}
		r := New(gateway, &fakeProvider{handle: "ExponentPushToken[abc]"}, channels, &fakeHandleStore{}, "proj-1", platform)

		_, err := r.Register(context.Background())
		require.NoError(t, err)
		assert.Equal(t, wantCalls, channels.calls, "platform %s", platform)
	}
}

func TestRegisterChannelIsIdempotentAcrossAttempts(t *testing.T) {
	gateway := &fakeGateway{status: PermissionGranted}
	channels := &fakeChannels{}
	r := New(gateway, &fakeProvider{handle: "ExponentPushToken[abc]"}, channels, &fakeHandleStore{}, "proj-1", "android")

	_, err := r.Register(context.Background())
	require.NoError(t, err)
	_, err = r.Register(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, channels.calls)
	assert.Equal(t, "default", channels.last.ID)
	assert.Equal(t, "max", channels.last.Importance)
}

func TestRegisterProviderFailureReturnsError(t *testing.T) {
	gateway := &fakeGateway{status: PermissionGranted}
	store := &fakeHandleStore{}
	r := New(gateway, &fakeProvider{err: errors.New("service unavailable")}, &fakeChannels{}, store, "proj-1", "android")

	handle, err := r.Register(context.Background())

	assert.Empty(t, handle)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrPermissionDenied)
	assert.Zero(t, store.writes)
}
