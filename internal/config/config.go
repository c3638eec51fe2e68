package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type LogConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	Console bool   `yaml:"console"`
	File    string `yaml:"file"`
	Caller  bool   `yaml:"caller"`
}

type AppConfig struct {
	QueueCapacity      int `yaml:"queue_capacity"`
	MaxConcurrentGames int `yaml:"max_concurrent_games"`

	RedisURL    string `yaml:"redis_url"`
	DatabaseURL string `yaml:"database_url"`

	ResultTTLSec      int  `yaml:"result_ttl_sec"`
	PersistTimeoutSec int  `yaml:"persist_timeout_sec"`
	MigrateDB         bool `yaml:"migrate_db"`

	Log LogConfig `yaml:"log"`
}

func (c *AppConfig) ResultTTL() time.Duration { return time.Duration(c.ResultTTLSec) * time.Second }

func (c *AppConfig) PersistTimeout() time.Duration {
	return time.Duration(c.PersistTimeoutSec) * time.Second
}

func defaults() *AppConfig {
	return &AppConfig{
		QueueCapacity:      100,
		MaxConcurrentGames: 200,
		ResultTTLSec:       7 * 24 * 3600,
		PersistTimeoutSec:  5,
		Log: LogConfig{
			Level:   "info",
			Format:  "legacy",
			Console: true,
		},
	}
}

// Load applies defaults, then the YAML file named by CHESS_CONFIG_FILE,
// then environment variables.
func Load() (*AppConfig, error) {
	cfg := defaults()
	if path := strings.TrimSpace(os.Getenv("CHESS_CONFIG_FILE")); path != "" {
		if err := mergeFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads only defaults and the given file, ignoring the environment.
func LoadFile(path string) (*AppConfig, error) {
	cfg := defaults()
	if err := mergeFile(cfg, path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeFile(cfg *AppConfig, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	cfg.RedisURL = strings.TrimSpace(cfg.RedisURL)
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	return nil
}

func applyEnv(cfg *AppConfig) error {
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"CHESS_QUEUE_CAPACITY", &cfg.QueueCapacity},
		{"MAX_CONCURRENT_GAMES", &cfg.MaxConcurrentGames},
		{"CHESS_RESULT_TTL", &cfg.ResultTTLSec},
		{"CHESS_PERSIST_TIMEOUT", &cfg.PersistTimeoutSec},
	}
	for _, it := range ints {
		v := strings.TrimSpace(os.Getenv(it.key))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", it.key, err)
		}
		*it.dst = n
	}

	if v := strings.TrimSpace(os.Getenv("CHESS_MIGRATE_DB")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MigrateDB = b
		}
	}

	// Logging
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("LOG_TO_CONSOLE")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Console = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("LOG_CALLER")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Caller = b
		}
	}
	if v, ok := os.LookupEnv("LOG_FILE"); ok {
		cfg.Log.File = strings.TrimSpace(v)
	}
	return nil
}

func (c *AppConfig) Validate() error {
	if c.QueueCapacity <= 0 {
		return errors.New("queue capacity must be positive")
	}
	if c.MaxConcurrentGames <= 0 {
		return errors.New("max concurrent games must be positive")
	}
	if c.ResultTTLSec <= 0 {
		return errors.New("result ttl must be positive")
	}
	if c.PersistTimeoutSec <= 0 {
		return errors.New("persist timeout must be positive")
	}
	switch c.Log.Format {
	case "legacy", "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
