package main

import (
	"context"
	"flag"
	"log"

	"storefront-agent/internal/backend"
	"storefront-agent/internal/broadcast"
	"storefront-agent/pkg/config"
	"storefront-agent/pkg/expo"
)

func main() {
	title := flag.String("title", "", "notification title (defaults to the fixed test title)")
	body := flag.String("body", "", "notification body (defaults to the fixed test body)")
	flag.Parse()

	cfg := config.Load()

	backendClient := backend.NewClient(cfg.BackendBaseURL, cfg.HTTPTimeout)
	expoClient := expo.NewClient(cfg.ExpoPushURL, cfg.HTTPTimeout)

	resp, err := broadcast.Run(context.Background(), backendClient, expoClient, *title, *body)
	if err != nil {
		log.Fatal("Broadcast failed: ", err)
	}

	if resp == nil {
		return
	}
	for i, ticket := range resp.Data {
		if ticket.Status != "ok" {
			log.Printf("[Broadcast] ticket %d: %s (%s)", i, ticket.Status, ticket.Message)
		}
	}
	log.Printf("[Broadcast] done, %d ticket(s)", len(resp.Data))
}
