package main

// Headless sync worker: runs the poll loop without the HTTP surface. Useful
// on hosts where the agent is driven purely by a pre-provisioned profile.

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"callsync/internal/bootstrap"
	"callsync/internal/session"
	"callsync/internal/shared/config"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	profile, err := app.Sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoProfile) {
			log.Fatal("no stored profile; log in through the API before running the worker")
		}
		log.Fatalf("load profile: %v", err)
	}

	log.Printf("worker started folder=%s interval=%s tenant=%d", watchDir(cfg, profile), cfg.PollInterval, profile.TenantID)
	app.Runner.Start()

	<-ctx.Done()

	log.Printf("shutdown requested, waiting for in-flight upload")
	app.Runner.Stop()
	log.Printf("worker stopped")
}

func watchDir(cfg config.Config, profile session.UserProfile) string {
	if profile.FolderPath != "" {
		return profile.FolderPath
	}
	return cfg.WatchDir
}
