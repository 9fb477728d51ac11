package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anatolykoptev/go_tube/internal/search"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "gotube:state:"

// Redis stores records as plain string keys without expiry.
type Redis struct {
	rdb *redis.Client
}

// OpenRedis connects to redisURL and checks the connection.
func OpenRedis(ctx context.Context, redisURL string) (*Redis, error) {
	if redisURL == "" {
		return nil, errors.New("redis: REDIS_URL is required")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &Redis{rdb: rdb}, nil
}

// NewRedis wraps an existing client.
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := r.rdb.Get(ctx, redisKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, search.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: load %s: %w", name, err)
	}
	return data, nil
}

func (r *Redis) Save(ctx context.Context, name string, data []byte) error {
	if err := r.rdb.Set(ctx, redisKeyPrefix+name, data, 0).Err(); err != nil {
		return fmt.Errorf("redis: save %s: %w", name, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
