package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
)

// Serves the crop advisory API until interrupted.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := initializeApp()
	if err != nil {
		log.Fatalf("wire advisory service: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("advisory service stopped: %v", err)
	}
}
