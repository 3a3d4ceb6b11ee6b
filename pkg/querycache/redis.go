package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/bazario/config"
)

// RedisDriver shares cached query responses across CLI invocations and the
// daemon through a Redis instance.
type RedisDriver struct {
	rdb *redis.Client
	ctx context.Context
}

// NewRedisDriver connects to Redis and verifies the connection with a ping.
func NewRedisDriver() (*RedisDriver, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("querycache/redis: ping: %w", err)
	}
	return &RedisDriver{rdb: rdb, ctx: ctx}, nil
}

func (d *RedisDriver) Name() string { return "redis" }

func redisKey(key string) string { return "bazario:query:" + key }

func (d *RedisDriver) Get(key string, dest interface{}) bool {
	val, err := d.rdb.Get(d.ctx, redisKey(key)).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

func (d *RedisDriver) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return d.rdb.Set(d.ctx, redisKey(key), data, ttl).Err()
}

func (d *RedisDriver) Forget(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = redisKey(k)
	}
	return d.rdb.Del(d.ctx, full...).Err()
}
