package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"aquasmart/app"
	"aquasmart/confs"
	"aquasmart/logging"

	"github.com/fsnotify/fsnotify"
)

func main() {
	// load config
	cfg, err := confs.LoadConfig(".")
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Dev)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	confs.Watch(".", func(_ *confs.Config, e fsnotify.Event) {
		logger.Infof("config changed (%s); restart to apply", e.Name)
	})

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to start: %v", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Serve(ctx); err != nil {
		logger.Errorf("server stopped: %v", err)
	}
}
