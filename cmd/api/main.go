package main

import (
	"context"
	"log"

	"callsync/internal/bootstrap"
	"callsync/internal/server"
	"callsync/internal/shared/config"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	// Pick the background sync back up if it was running before a restart.
	app.ResumeIfFlagged(context.Background())

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
