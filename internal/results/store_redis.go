package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/park285/chess-rules/pkg/chessdto"
	"github.com/redis/go-redis/v9"
)

const (
	defaultResultTTL = 7 * 24 * time.Hour
	recentLimit      = 500
)

// RedisStore keeps each result as JSON under game:<id> and the ids, newest
// first, in the games:recent list.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultResultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// OpenRedis dials REDIS_URL and pings it.
func OpenRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	opts, err := parseRedisURL(rawURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redis db %q", p)
		}
		db = n
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}

func (s *RedisStore) keyGame(id string) string { return "game:" + strings.TrimSpace(id) }
func (s *RedisStore) keyRecent() string { return "games:recent" }

func (s *RedisStore) Save(ctx context.Context, r *chessdto.GameResult) error {
	if r == nil {
		return nil
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.keyGame(r.GameID), raw, s.ttl)
	pipe.LRem(ctx, s.keyRecent(), 0, r.GameID)
	pipe.LPush(ctx, s.keyRecent(), r.GameID)
	pipe.LTrim(ctx, s.keyRecent(), 0, recentLimit-1)
	pipe.Expire(ctx, s.keyRecent(), s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Get(ctx context.Context, gameID string) (*chessdto.GameResult, error) {
	raw, err := s.rdb.Get(ctx, s.keyGame(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var r chessdto.GameResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Recent skips ids whose result has already expired.
func (s *RedisStore) Recent(ctx context.Context, limit int) ([]*chessdto.GameResult, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ids, err := s.rdb.LRange(ctx, s.keyRecent(), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*chessdto.GameResult, 0, len(ids))
	for _, id := range ids {
		r, err := s.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
