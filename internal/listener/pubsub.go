package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

type pubsubEvent struct {
	Event        string       `json:"event"` // received | response
	Notification Notification `json:"notification"`
}

// PubSubSource feeds the registry from a Cloud Pub/Sub subscription. The
// native shell publishes one message per platform notification event.
type PubSubSource struct {
	client    *pubsub.Client
	topicName string
	subName   string

	mu          sync.Mutex
	nextID      int
	subscribers map[string]map[int]func(Notification)
}

func NewPubSubSource(projectID, topicName, credentialsFile string) (*PubSubSource, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	return &PubSubSource{
		client:      client,
		topicName:   topicName,
		subName:     topicName + "-sub", // Convention: topic-sub
		subscribers: map[string]map[int]func(Notification){},
	}, nil
}

// Subscribe registers a callback for one event kind and returns its teardown.
func (s *PubSubSource) Subscribe(event string, fn func(Notification)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subscribers[event] == nil {
		s.subscribers[event] = map[int]func(Notification){}
	}
	id := s.nextID
	s.nextID++
	s.subscribers[event][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers[event], id)
	}, nil
}

// Start blocks on the subscription's receive loop until ctx is cancelled.
func (s *PubSubSource) Start(ctx context.Context) {
	log.Printf("[PubSub] starting listener source with topic: %s, subscription: %s", s.topicName, s.subName)

	sub := s.client.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		log.Printf("[PubSub] error checking subscription existence: %v", err)
		return
	}

	if !exists {
		topic := s.client.Topic(s.topicName)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			log.Printf("[PubSub] error checking topic existence: %v", err)
			return
		}
		if !topicExists {
			log.Printf("[PubSub] topic does not exist, cannot create subscription")
			return
		}

		sub, err = s.client.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 10 * time.Second,
		})
		if err != nil {
			log.Printf("[PubSub] failed to create subscription: %v", err)
			return
		}
		log.Printf("[PubSub] created subscription: %s", s.subName)
	}

	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.handleMessage(msg)
		msg.Ack()
	})
	if err != nil {
		log.Printf("[PubSub] error receiving messages: %v", err)
	}
}

func (s *PubSubSource) handleMessage(msg *pubsub.Message) {
	var event pubsubEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("[PubSub] failed to unmarshal notification event: %v", err)
		return
	}

	s.mu.Lock()
	callbacks := make([]func(Notification), 0, len(s.subscribers[event.Event]))
	for _, fn := range s.subscribers[event.Event] {
		callbacks = append(callbacks, fn)
	}
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(event.Notification)
	}
}
