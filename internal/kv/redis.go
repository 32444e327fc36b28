package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dancehub-storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

// guestCartTTL bounds how long an abandoned guest cart is retained.
const guestCartTTL = 30 * 24 * time.Hour

type redisStore struct {
	client *redis.Client
}

// NewRedis returns a Store backed by Redis string keys with a sliding TTL.
func NewRedis(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return value, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, guestCartTTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *redisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}
