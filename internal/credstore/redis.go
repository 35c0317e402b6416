package credstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"credit-intake-client/internal/common/config"
)

const tokenKey = "credit:access_token"

// RedisStore keeps the token under a single redis key with no TTL, so a
// session survives client restarts until an explicit logout or a 401.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	return &RedisStore{client: rdb}
}

// NewRedisStoreFromClient wraps an existing client (used by tests).
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, tokenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		// Store unavailable degrades to anonymous.
		return "", nil
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, token string) error {
	return s.client.Set(ctx, tokenKey, token, 0).Err()
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, tokenKey).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
