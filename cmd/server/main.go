package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nfrund/livechat/internal/config"
	"github.com/nfrund/livechat/internal/logging"
	"github.com/nfrund/livechat/internal/server"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logging.New(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := server.New(cfg)
	if err := s.RegisterRoutes(ctx); err != nil {
		logger.Error("Failed to register routes", "error", err)
		os.Exit(1)
	}

	if err := s.Start(ctx); err != nil {
		logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}
