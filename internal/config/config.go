package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"

	DefaultTypingDelay = 1500 * time.Millisecond
)

type Config struct {
	Port          string        `env:"PORT" envDefault:"3000"`
	DevMode       bool          `env:"VANGO_DEV"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	StoreBaseURL  string        `env:"STORE_BASE_URL" envDefault:"http://localhost:8080"`
	StoreTimeout  time.Duration `env:"STORE_CLIENT_TIMEOUT" envDefault:"0s"`
	TypingDelay   time.Duration `env:"BOT_TYPING_DELAY" envDefault:"1500ms"`
	FrameInterval time.Duration `env:"ANIMATION_FRAME_INTERVAL" envDefault:"100ms"`

	StorePort        string `env:"STORE_PORT" envDefault:"8080"`
	StoreBackend     string `env:"STORE_BACKEND" envDefault:"sqlite"`
	DatabasePath     string `env:"DATABASE_PATH"`
	DatabaseURL      string `env:"DATABASE_URL"`
	RedisURL         string `env:"REDIS_URL"`
	StoreMaxMessages int    `env:"STORE_MAX_MESSAGES" envDefault:"1000"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "db/messages.sqlite"
		if cfg.DevMode {
			cfg.DatabasePath = filepath.Join(os.TempDir(), "chat_widget.sqlite")
		}
	}
	if cfg.TypingDelay < 0 {
		cfg.TypingDelay = DefaultTypingDelay
	}
	if cfg.FrameInterval < 10*time.Millisecond {
		cfg.FrameInterval = 100 * time.Millisecond
	}
	if cfg.StoreMaxMessages < 1 {
		cfg.StoreMaxMessages = 1000
	}

	return cfg, nil
}

// ValidateStore checks the settings the message store service needs.
func (c Config) ValidateStore() error {
	switch c.StoreBackend {
	case BackendSQLite:
		if c.DatabasePath == "" {
			return errors.New("DATABASE_PATH is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}
