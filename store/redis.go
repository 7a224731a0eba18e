package store

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection parameters of a Redis blob.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	TLSEnabled bool
	Key        string // defaults to "bankroll:ledger"
}

// Redis is a Blob stored under one Redis key.
type Redis struct {
	rdb *redis.Client
	key string
}

// NewRedis connects to Redis and checks the connection.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLSEnabled {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return NewRedisClient(rdb, cfg.Key), nil
}

// NewRedisClient uses an existing client.
func NewRedisClient(rdb *redis.Client, key string) *Redis {
	if key == "" {
		key = "bankroll:ledger"
	}
	return &Redis{rdb: rdb, key: key}
}

func (r *Redis) Get(ctx context.Context) ([]byte, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get %s: %w", r.key, err)
	}
	return data, nil
}

func (r *Redis) Put(ctx context.Context, data []byte) error {
	if err := r.rdb.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", r.key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error { return r.rdb.Close() }
