package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/muhajirhq/muhajir-backend/internal/logger"
)

// CounterStore implements ratelimit.CounterStore against a shared redis, so
// rate-limit ceilings hold across multiple service instances.
type CounterStore struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

func NewCounterStore(log *logger.Logger) (*CounterStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &CounterStore{
		log:    log.With("service", "RedisCounterStore"),
		rdb:    rdb,
		prefix: "ratelimit:",
	}, nil
}

func (s *CounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if s == nil || s.rdb == nil {
		return 0, fmt.Errorf("redis counter store not initialized")
	}

	fullKey := s.prefix + key
	count, err := s.rdb.Incr(ctx, fullKey).Result()
	if err != nil {
		return 0, err
	}
	// First hit opens the window; expiry resets the bucket atomically.
	if count == 1 {
		if err := s.rdb.Expire(ctx, fullKey, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (s *CounterStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
