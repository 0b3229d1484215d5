package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Backend string

const (
	BackendRealtime  Backend = "realtime"  // REST lookup + websocket change feed
	BackendFirestore Backend = "firestore" // document lookup + snapshot watch
	BackendMemory    Backend = "memory"    // in-process fake, for local dev
)

type Config struct {
	Backend Backend `env:"PAIRVIEW_BACKEND" envDefault:"realtime"`

	// ConfigURL is the optional remote config endpoint tried first when
	// resolving store credentials. The credential env vars themselves
	// (PAIRVIEW_STORE_URL/KEY) belong to the credentials package.
	ConfigURL string `env:"PAIRVIEW_CONFIG_URL"`

	// LogFile receives JSON logs while the TUI owns the terminal.
	LogFile string `env:"PAIRVIEW_LOG_FILE" envDefault:"pairview.log"`
}

// Load reads all env vars and builds the config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Backend {
	case BackendRealtime, BackendFirestore, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	return &cfg, nil
}
