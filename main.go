package main

import (
	"context"
	"log"
	"path/filepath"

	api "storefront-agent/cmd/api"
	"storefront-agent/internal/backend"
	"storefront-agent/internal/bridge"
	"storefront-agent/internal/credstore"
	"storefront-agent/internal/dispatch"
	dispatchDelivery "storefront-agent/internal/dispatch/delivery"
	"storefront-agent/internal/listener"
	"storefront-agent/internal/registrar"
	"storefront-agent/internal/session"
	sessionDelivery "storefront-agent/internal/session/delivery"
	"storefront-agent/pkg/config"
	"storefront-agent/pkg/expo"
	"storefront-agent/pkg/fcm"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Credential store: encrypted-file secure tier with the SQLite fallback
	// tier. A secure tier that cannot initialize degrades to fallback-only.
	fallback, err := credstore.NewKV(filepath.Join(cfg.DataDir, "agent.db"))
	if err != nil {
		log.Fatal("Failed to open credential store: ", err)
	}

	var secure credstore.Backend
	if cfg.DeviceSecret != "" {
		sf, err := credstore.NewSecureFile(filepath.Join(cfg.DataDir, "secure.bin"), cfg.DeviceSecret)
		if err != nil {
			log.Printf("[WARN] secure tier unavailable, falling back: %v", err)
		} else {
			secure = sf
		}
	} else {
		log.Printf("[WARN] DEVICE_SECRET not configured, secure tier disabled")
	}

	inspector := session.NewInspector(nil)
	store := credstore.New(secure, fallback, inspector)

	// Remote collaborators
	backendClient := backend.NewClient(cfg.BackendBaseURL, cfg.HTTPTimeout)
	bridgeClient := bridge.NewClient(cfg.BridgeBaseURL, cfg.HTTPTimeout)

	// Session lifecycle
	sessionManager := session.NewManager(store, inspector, backendClient)

	// Push registration
	pushRegistrar := registrar.New(bridgeClient, bridgeClient, bridgeClient, store, cfg.ProjectID, cfg.Platform)

	// Delivery provider: Expo by default, FCM when configured
	var deliverer dispatch.Deliverer = expo.NewClient(cfg.ExpoPushURL, cfg.HTTPTimeout)
	if cfg.PushProvider == "fcm" {
		fcmClient, err := fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] failed to initialize FCM client, using Expo delivery: %v", err)
		} else {
			deliverer = dispatch.NewFCMDeliverer(fcmClient)
		}
	}

	dispatcher := dispatch.NewDispatcher(deliverer, store, bridgeClient)

	// Incoming-notification routing
	registry := listener.NewRegistry()
	if cfg.GoogleProjectID != "" {
		source, err := listener.NewPubSubSource(cfg.GoogleProjectID, cfg.GooglePubSubTopic, cfg.GoogleCredentials)
		if err != nil {
			log.Printf("[ERROR] failed to initialize pubsub listener source: %v", err)
		} else {
			teardown, err := listener.SetListeners(source, registry.HandleReceived, registry.HandleResponse)
			if err != nil {
				log.Printf("[ERROR] failed to subscribe notification listeners: %v", err)
			} else {
				defer teardown()
				go source.Start(context.Background())
			}
		}
	} else {
		log.Printf("[WARN] GOOGLE_PROJECT_ID not configured, pubsub listener source disabled")
	}

	// Local agent API
	sessionHandler := sessionDelivery.NewSessionHandler(store, sessionManager, dispatcher)
	notificationHandler := dispatchDelivery.NewNotificationHandler(pushRegistrar, dispatcher, registry)
	handler := api.NewHandler(store, sessionHandler, notificationHandler)

	log.Printf("Agent starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start agent: ", err)
	}
}
