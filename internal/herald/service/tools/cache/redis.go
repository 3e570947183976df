package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/pkg/utils/json"
	"github.com/redis/go-redis/v9"
)

var _ Cache = (*RedisCache)(nil)

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisCache shares tool results across herald replicas. Expiry is delegated
// to Redis key TTLs.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisCache(cfg RedisConfig, ttl time.Duration) (*RedisCache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "herald:toolcache:"
	}
	return &RedisCache{rdb: rdb, ttl: ttl, prefix: prefix}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (*entity.ToolResult, error) {
	data, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errbuilder.NotFoundErr(errbuilder.GenericErr("cache item not found", nil))
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var result entity.ToolResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode cached result: %w", err)
	}
	return &result, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, result *entity.ToolResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return c.rdb.Set(ctx, c.prefix+key, data, c.ttl).Err()
}

// Len is not tracked for Redis; it reports -1.
func (c *RedisCache) Len() int {
	return -1
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
