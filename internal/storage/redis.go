// Package storage provides the persistence layer for FootyOracle.
package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisClient wraps go-redis client.
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient connects to redisURL and verifies the connection.
func NewRedisClient(redisURL string, log *zap.Logger) (*RedisClient, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	// Small pool: one process, one history slot.
	opt.PoolSize = 5
	opt.MinIdleConns = 1
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	log.Info("redis connected", zap.String("addr", opt.Addr), zap.Int("db", opt.DB))
	return &RedisClient{client: client, ctx: ctx}, nil
}

// Get retrieves a value from Redis. A missing key yields "".
func (r *RedisClient) Get(key string) (string, error) {
	val, err := r.client.Get(r.ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// Set stores a value in Redis (no expiration).
func (r *RedisClient) Set(key string, value string) error {
	return r.client.Set(r.ctx, key, value, 0).Err()
}

// Delete removes a key from Redis.
func (r *RedisClient) Delete(key string) error {
	return r.client.Del(r.ctx, key).Err()
}

// Close releases the connection pool.
func (r *RedisClient) Close() error {
	return r.client.Close()
}
