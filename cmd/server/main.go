package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vango-go/vango"

	"chat_widget/app/routes"
	"chat_widget/app/routes/api"
	"chat_widget/internal/ai"
	"chat_widget/internal/config"
	"chat_widget/internal/logging"
	"chat_widget/internal/storeclient"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New(false, "info")
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := logging.New(cfg.DevMode, cfg.LogLevel)

	store := storeclient.New(cfg.StoreBaseURL, cfg.StoreTimeout)
	api.SetStoreHealth(store.Ping)

	app, err := vango.New(vango.Config{
		Session: vango.SessionConfig{
			ResumeWindow: vango.ResumeWindow(30 * time.Second),
		},
		Static: vango.StaticConfig{
			Dir:    "public",
			Prefix: "/",
		},
		DevMode: cfg.DevMode,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create app")
	}

	routes.SetDeps(routes.Deps{
		Store:         store,
		Responder:     ai.NewResponder(nil),
		Logger:        logger,
		TypingDelay:   cfg.TypingDelay,
		FrameInterval: cfg.FrameInterval,
	})
	routes.Register(app)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("store", cfg.StoreBaseURL).Msg("starting widget server")
	if err := app.Run(ctx, addr); err != nil {
		logger.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}
