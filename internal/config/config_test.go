package config_test

import (
	"testing"

	"github.com/PabloGalante/pairview/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != config.BackendRealtime {
		t.Fatalf("expected realtime default backend, got %q", cfg.Backend)
	}
	if cfg.LogFile == "" {
		t.Fatalf("expected a default log file")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("PAIRVIEW_BACKEND", "carrier-pigeon")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected an error for an unknown backend")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PAIRVIEW_BACKEND", "memory")
	t.Setenv("PAIRVIEW_CONFIG_URL", "https://cfg.example/api/config")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != config.BackendMemory {
		t.Fatalf("expected memory backend, got %q", cfg.Backend)
	}
	if cfg.ConfigURL != "https://cfg.example/api/config" {
		t.Fatalf("unexpected config url %q", cfg.ConfigURL)
	}
}
