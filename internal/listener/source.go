package listener

// Platform notification events the agent subscribes to.
const (
	EventReceived = "received"
	EventResponse = "response"
)

// EventSource delivers platform notification events to subscribers. The
// returned teardown removes exactly that subscription.
type EventSource interface {
	Subscribe(event string, fn func(Notification)) (func(), error)
}

// SetListeners subscribes the received and tapped callbacks and returns one
// teardown that unsubscribes both. There is no automatic lifecycle binding;
// the caller owns the teardown and must invoke it on shutdown.
func SetListeners(src EventSource, onReceived, onResponse func(Notification)) (func(), error) {
	cancelReceived, err := src.Subscribe(EventReceived, onReceived)
	if err != nil {
		return nil, err
	}
	cancelResponse, err := src.Subscribe(EventResponse, onResponse)
	if err != nil {
		cancelReceived()
		return nil, err
	}
	return func() {
		cancelReceived()
		cancelResponse()
	}, nil
}
