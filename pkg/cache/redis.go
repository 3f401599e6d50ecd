package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"searchconsole-go/pkg/logger"
)

// RedisStore implements Store on top of a Redis instance. Expiry is
// delegated to Redis key TTLs.
type RedisStore struct {
	client *redis.Client
	log    *logger.Logger
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NewRedisStore creates a Redis-backed store. The connection is verified
// with a ping so a misconfigured address fails at startup, not first use.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{
		client: client,
		log:    logger.GetLogger().WithField("component", "redis_cache"),
	}, nil
}

func (rs *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			rs.log.WithError(err).WithField("key", key).Warn("Redis get failed")
		}
		return nil, false
	}
	return value, true
}

func (rs *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return rs.client.Set(ctx, key, value, ttl).Err()
}

// Clear removes keys matching prefix via SCAN, or every key in the
// selected database when prefix is empty.
func (rs *RedisStore) Clear(ctx context.Context, prefix string) error {
	if prefix == "" {
		return rs.client.FlushDB(ctx).Err()
	}

	iter := rs.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 100 {
			if err := rs.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return rs.client.Del(ctx, batch...).Err()
	}
	return nil
}

// Close releases the underlying connection pool.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
