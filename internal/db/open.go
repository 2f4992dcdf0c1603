package db

import (
	"context"

	"chat_widget/internal/config"
)

// Open connects the backend selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg config.Config) (MessageStore, error) {
	if err := cfg.ValidateStore(); err != nil {
		return nil, err
	}
	var (
		store MessageStore
		err   error
	)
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		store, err = OpenPostgres(ctx, cfg.DatabaseURL)
	case config.BackendRedis:
		store, err = OpenRedis(ctx, cfg.RedisURL)
	default:
		store, err = OpenSQLite(cfg.DatabasePath)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}
