// Command voxhired is the interview backend: question generation, feedback,
// analytics, speech synthesis, and transcription over HTTP.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/voxhire/voxhire/internal/config"
	"github.com/voxhire/voxhire/internal/gemini"
	"github.com/voxhire/voxhire/internal/server"
	"github.com/voxhire/voxhire/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Gemini.APIKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	shutdown, err := telemetry.InitTracer("voxhired", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gen, err := gemini.New(ctx, cfg.Gemini.APIKey, logger)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	srv := server.New(cfg.Server.Port, logger)
	server.NewHandler(gen, logger).Register(srv.Router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	case <-sigChan:
		logger.Info("shutdown signal received")
	}
}
