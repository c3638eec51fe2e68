package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CHESS_CONFIG_FILE", "REDIS_URL", "DATABASE_URL", "CHESS_QUEUE_CAPACITY",
		"MAX_CONCURRENT_GAMES", "CHESS_RESULT_TTL", "CHESS_PERSIST_TIMEOUT", "CHESS_MIGRATE_DB",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_TO_CONSOLE", "LOG_CALLER", "LOG_FILE",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chess.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.QueueCapacity != 100 || cfg.MaxConcurrentGames != 200 {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.ResultTTL() != 7*24*time.Hour || cfg.PersistTimeout() != 5*time.Second {
		t.Fatalf("durations = %v %v", cfg.ResultTTL(), cfg.PersistTimeout())
	}
	if cfg.RedisURL != "" || cfg.DatabaseURL != "" {
		t.Fatalf("sinks configured by default")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
queue_capacity: 10
max_concurrent_games: 3
redis_url: " redis://file:6379/0 "
log:
  level: debug
  format: json
`)
	t.Setenv("CHESS_CONFIG_FILE", path)
	t.Setenv("MAX_CONCURRENT_GAMES", "7")
	t.Setenv("REDIS_URL", "redis://env:6379/1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.QueueCapacity != 10 {
		t.Fatalf("file value lost: %d", cfg.QueueCapacity)
	}
	if cfg.MaxConcurrentGames != 7 {
		t.Fatalf("env did not override file: %d", cfg.MaxConcurrentGames)
	}
	if cfg.RedisURL != "redis://env:6379/1" {
		t.Fatalf("redis url = %q", cfg.RedisURL)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" || !cfg.Log.Console {
		t.Fatalf("log = %+v", cfg.Log)
	}
}

func TestLoadFileTrims(t *testing.T) {
	path := writeFile(t, "database_url: \"  postgres://x  \"\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if cfg.DatabaseURL != "postgres://x" {
		t.Fatalf("database url = %q", cfg.DatabaseURL)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"bad int", map[string]string{"CHESS_QUEUE_CAPACITY": "many"}},
		{"zero capacity", map[string]string{"CHESS_QUEUE_CAPACITY": "0"}},
		{"negative games", map[string]string{"MAX_CONCURRENT_GAMES": "-1"}},
		{"bad format", map[string]string{"LOG_FORMAT": "xml"}},
		{"missing file", map[string]string{"CHESS_CONFIG_FILE": "/nonexistent/chess.yaml"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
