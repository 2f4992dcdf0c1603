package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"chat_widget/internal/api"
	"chat_widget/internal/config"
	"chat_widget/internal/db"
	"chat_widget/internal/logging"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New(false, "info")
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := logging.New(cfg.DevMode, cfg.LogLevel).With().Str("component", "store").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("failed to open message store")
	}
	defer store.Close()
	logger.Info().Str("backend", cfg.StoreBackend).Msg("message store ready")

	server := &http.Server{
		Addr:              ":" + cfg.StorePort,
		Handler:           api.NewRouter(logger, store, cfg.StoreMaxMessages),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}()

	logger.Info().Str("addr", server.Addr).Msg("starting message store")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}
