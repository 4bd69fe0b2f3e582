package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "os-sistema/pkg/errors"
)

type redisCacheRepository struct {
	client *redis.Client
}

func NewRedisCacheRepository(client *redis.Client) CacheRepositoryInterface {
	return &redisCacheRepository{client: client}
}

func (r *redisCacheRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *redisCacheRepository) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
