package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface guarda valores pequenos com TTL opcional (TTL
// zero = sem expiração). Usado pelo bot para o estado de conversa.
type CacheRepositoryInterface interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
