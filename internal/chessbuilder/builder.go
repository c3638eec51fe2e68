package chessbuilder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/park285/chess-rules/internal/config"
	"github.com/park285/chess-rules/internal/registry"
	"github.com/park285/chess-rules/internal/results"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deps is the wired application: a registry plus whatever result stores
// the configuration asked for.
type Deps struct {
	Registry *registry.Registry
	Sink     results.Sink
	// Reader is the first configured store that can list past games.
	Reader results.Reader

	redis *redis.Client
	repo  *results.Repository
}

// New connects the configured sinks and builds the registry. Redis and
// Postgres are optional; with neither, results stay in memory.
func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Deps{}

	var sinks results.Multi
	if strings.TrimSpace(cfg.RedisURL) != "" {
		rdb, err := results.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		d.redis = rdb
		store := results.NewRedisStore(rdb, cfg.ResultTTL())
		sinks = append(sinks, store)
		d.Reader = store
	}
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		repo, err := results.NewRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		d.repo = repo
		if cfg.MigrateDB {
			if err := repo.Migrate(ctx); err != nil {
				_ = d.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		sinks = append(sinks, repo)
	}
	if len(sinks) == 0 {
		mem := results.NewMemoryStore()
		sinks = append(sinks, mem)
		d.Reader = mem
		logger.Info("results_in_memory")
	}
	if len(sinks) == 1 {
		d.Sink = sinks[0]
	} else {
		d.Sink = sinks
	}

	d.Registry = registry.New(registry.Config{
		QueueCapacity:      cfg.QueueCapacity,
		MaxConcurrentGames: cfg.MaxConcurrentGames,
		PersistTimeout:     cfg.PersistTimeout(),
		Logger:             logger.Named("registry"),
		Sink:               d.Sink,
	})
	return d, nil
}

// Close releases store connections. Shut the registry down first so
// pending results are written.
func (d *Deps) Close() error {
	var errs []error
	if d.redis != nil {
		errs = append(errs, d.redis.Close())
	}
	if d.repo != nil {
		errs = append(errs, d.repo.Close())
	}
	return errors.Join(errs...)
}
