package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/uxxjournal/transcribe-relay/internal/api"
	"github.com/uxxjournal/transcribe-relay/internal/config"
	"github.com/uxxjournal/transcribe-relay/internal/logger"
	"github.com/uxxjournal/transcribe-relay/internal/metrics"
	"github.com/uxxjournal/transcribe-relay/internal/stt"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	slog.SetDefault(log)

	transcriber, err := stt.New(cfg.STT)
	if err != nil {
		slog.Error("failed to build transcriber", "error", err)
		os.Exit(1)
	}
	if err := transcriber.Ready(); err != nil {
		// Not fatal: each request reports the misconfiguration.
		slog.Warn("transcriber not ready", "provider", transcriber.Name(), "error", err)
	}

	router := api.NewRouter(cfg, log, transcriber, metrics.New())
	handler := router.Setup()
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("starting transcription relay", "addr", cfg.Addr(), "provider", transcriber.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
