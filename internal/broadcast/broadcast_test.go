package broadcast

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-agent/internal/backend"
	"storefront-agent/pkg/expo"
)

type fakeLister struct {
	tokens []backend.DeviceToken
	err    error
}

func (f *fakeLister) ListDeviceTokens(ctx context.Context) ([]backend.DeviceToken, error) {
	return f.tokens, f.err
}

type fakeDeliverer struct {
	calls [][]expo.Message
	err   error
}

func (f *fakeDeliverer) Send(ctx context.Context, messages []expo.Message) (*expo.Response, error) {
	f.calls = append(f.calls, messages)
	if f.err != nil {
		return nil, f.err
	}
	return &expo.Response{}, nil
}

func TestRunFailsFastOnBackendError(t *testing.T) {
	deliverer := &fakeDeliverer{}
	_, err := Run(context.Background(), &fakeLister{err: errors.New("success flag false")}, deliverer, "", "")

	assert.Error(t, err)
	assert.Empty(t, deliverer.calls, "nothing may be sent after a backend failure")
}

func TestRunFiltersEmptyHandles(t *testing.T) {
	lister := &fakeLister{tokens: []backend.DeviceToken{
		{DeviceToken: "ExponentPushToken[a]"},
		{DeviceToken: ""},
		{DeviceToken: "ExponentPushToken[b]"},
	}}
	deliverer := &fakeDeliverer{}

	_, err := Run(context.Background(), lister, deliverer, "", "")
	require.NoError(t, err)

	require.Len(t, deliverer.calls, 1)
	messages := deliverer.calls[0]
	require.Len(t, messages, 2)
	assert.Equal(t, "ExponentPushToken[a]", messages[0].To)
	assert.Equal(t, "ExponentPushToken[b]", messages[1].To)
}

func TestRunEmptyListSkipsDelivery(t *testing.T) {
	lister := &fakeLister{tokens: []backend.DeviceToken{{DeviceToken: ""}}}
	deliverer := &fakeDeliverer{}

	resp, err := Run(context.Background(), lister, deliverer, "", "")
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, deliverer.calls)
}

func TestRunBuildsFixedContentMessages(t *testing.T) {
	lister := &fakeLister{tokens: []backend.DeviceToken{{DeviceToken: "ExponentPushToken[a]"}}}
	deliverer := &fakeDeliverer{}

	_, err := Run(context.Background(), lister, deliverer, "", "")
	require.NoError(t, err)

	m := deliverer.calls[0][0]
	assert.Equal(t, defaultTitle, m.Title)
	assert.Equal(t, defaultBody, m.Body)
	assert.Equal(t, "default", m.Sound)
	assert.Equal(t, "high", m.Priority)
	assert.Equal(t, "test", m.Data["type"])
	assert.NotEmpty(t, m.Data["batchId"])
}

func TestRunDeliveryFailurePropagates(t *testing.T) {
	lister := &fakeLister{tokens: []backend.DeviceToken{{DeviceToken: "ExponentPushToken[a]"}}}
	deliverer := &fakeDeliverer{err: errors.New("endpoint down")}

	_, err := Run(context.Background(), lister, deliverer, "", "")
	assert.Error(t, err)
}
