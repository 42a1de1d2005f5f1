// Package listener routes incoming notifications by their type discriminator.
package listener

import (
	"log"
	"sync"
)

// Notification is an incoming platform notification as seen by the agent.
type Notification struct {
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data"`
}

// Type returns the data payload's discriminator, "" when absent.
func (n Notification) Type() string {
	t, _ := n.Data["type"].(string)
	return t
}

// Handler reacts to one notification type.
type Handler func(n Notification)

// Registry maps discriminator values to handlers. Adding a notification type
// is a Register call, not a new code branch. The default handler is required
// and catches every unknown type.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	fallback Handler
}

// NewRegistry seeds the known business types with stub handlers. Concrete
// per-type behavior is deliberately left to the embedding application.
func NewRegistry() *Registry {
	r := &Registry{
		handlers: map[string]Handler{},
		fallback: func(n Notification) {
			log.Printf("[Listener] unhandled notification type %q", n.Type())
		},
	}
	for _, kind := range []string{"promotion", "new_product", "flash_sale", "order_status"} {
		kind := kind
		r.handlers[kind] = func(n Notification) {
			log.Printf("[Listener] %s notification received: %s", kind, n.Title)
		}
	}
	return r
}

func (r *Registry) Register(kind string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = h
}

func (r *Registry) SetDefault(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = h
}

// HandleReceived routes a notification that arrived while the app was
// foregrounded.
func (r *Registry) HandleReceived(n Notification) {
	r.route(n)
}

// HandleResponse routes a notification the user tapped.
func (r *Registry) HandleResponse(n Notification) {
	log.Printf("[Listener] notification tapped: %s", n.Title)
	r.route(n)
}

func (r *Registry) route(n Notification) {
	r.mu.RLock()
	handler, ok := r.handlers[n.Type()]
	fallback := r.fallback
	r.mu.RUnlock()

	if ok {
		handler(n)
		return
	}
	fallback(n)
}
