// Package registrar obtains and persists this installation's push handle.
package registrar

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// ErrPermissionDenied terminates a registration attempt: the OS declined
// notification permission and no handle was created.
var ErrPermissionDenied = errors.New("notification permission denied")

// Permission is the OS-level notification permission.
type Permission int

const (
	PermissionUndetermined Permission = iota
	PermissionGranted
	PermissionDenied
)

// State tracks the registration flow for one attempt.
type State int

const (
	StateUnregistered State = iota
	StatePermissionRequested
	StateGranted
	StateDenied
	StateRegistered
)

func (s State) String() string {
	switch s {
	case StatePermissionRequested:
		return "permission_requested"
	case StateGranted:
		return "granted"
	case StateDenied:
		return "denied"
	case StateRegistered:
		return "registered"
	default:
		return "unregistered"
	}
}

// PermissionGateway exposes the platform permission prompt. Request issues a
// single prompt; whether the OS actually re-prompts is its call.
type PermissionGateway interface {
	Status(ctx context.Context) (Permission, error)
	Request(ctx context.Context) (Permission, error)
}

// HandleProvider hands out the platform push handle, scoped by the fixed
// application project identifier.
type HandleProvider interface {
	PushHandle(ctx context.Context, projectID string) (string, error)
}

// ChannelConfig describes the Android delivery channel.
type ChannelConfig struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Importance       string `json:"importance"`
	VibrationPattern []int  `json:"vibrationPattern"`
	LightColor       string `json:"lightColor"`
}

func DefaultChannel() ChannelConfig {
	return ChannelConfig{
		ID:               "default",
		Name:             "default",
		Importance:       "max",
		VibrationPattern: []int{0, 250, 250, 250},
		LightColor:       "#FF231F7C",
	}
}

// ChannelConfigurator ensures a delivery channel exists. Implementations must
// be idempotent; the registrar calls it on every registration.
type ChannelConfigurator interface {
	EnsureChannel(ctx context.Context, cfg ChannelConfig) error
}

// HandleStore persists the handle under the fixed fallback-tier key.
type HandleStore interface {
	SetPushHandle(handle string)
}

// Registrar walks Unregistered -> PermissionRequested -> Granted|Denied ->
// Registered. A failed registration never crashes a calling screen; callers
// get ("", err) and try again another day.
type Registrar struct {
	mu          sync.Mutex
	state       State
	permissions PermissionGateway
	provider    HandleProvider
	channels    ChannelConfigurator
	store       HandleStore
	projectID   string
	platform    string
}

func New(permissions PermissionGateway, provider HandleProvider, channels ChannelConfigurator, store HandleStore, projectID, platform string) *Registrar {
	return &Registrar{
		state:       StateUnregistered,
		permissions: permissions,
		provider:    provider,
		channels:    channels,
		store:       store,
		projectID:   projectID,
		platform:    platform,
	}
}

func (r *Registrar) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Registrar) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Register runs the full flow and returns the handle for immediate use, e.g.
// attaching to a login request. The handle is returned even when persisting
// it fails; storage problems are logged, not surfaced.
func (r *Registrar) Register(ctx context.Context) (string, error) {
	status, err := r.permissions.Status(ctx)
	if err != nil {
		log.Printf("[Registrar] failed to query permission status: %v", err)
		return "", fmt.Errorf("failed to query permission status: %w", err)
	}

	if status != PermissionGranted {
		r.setState(StatePermissionRequested)
		status, err = r.permissions.Request(ctx)
		if err != nil {
			log.Printf("[Registrar] permission request failed: %v", err)
			return "", fmt.Errorf("permission request failed: %w", err)
		}
	}

	if status != PermissionGranted {
		r.setState(StateDenied)
		log.Printf("[Registrar] notification permission denied")
		return "", ErrPermissionDenied
	}
	r.setState(StateGranted)

	handle, err := r.provider.PushHandle(ctx, r.projectID)
	if err != nil {
		log.Printf("[Registrar] failed to obtain push handle: %v", err)
		return "", fmt.Errorf("failed to obtain push handle: %w", err)
	}

	r.store.SetPushHandle(handle)

	// Android needs a delivery channel; safe to re-run every registration.
	if r.platform == "android" {
		if err := r.channels.EnsureChannel(ctx, DefaultChannel()); err != nil {
			log.Printf("[Registrar] failed to configure delivery channel: %v", err)
		}
	}

	r.setState(StateRegistered)
	log.Printf("[Registrar] device registered for push notifications")
	return handle, nil
}
