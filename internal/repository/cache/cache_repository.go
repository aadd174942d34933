package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/domain/repository"
)

// Префиксы всех кешируемых ответов; инвалидация чистит только их,
// не трогая чужие ключи в том же инстансе
var cachedKeyPatterns = []string{"query:*", "meta:*"}

type queryCache struct {
	client *redis.Client
	logger *zap.Logger
}

func NewQueryCache(redis *Redis) repository.QueryCache {
	return &queryCache{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *queryCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *queryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// InvalidateAll удаляет все закешированные ответы пачками через SCAN:
// KEYS на живом инстансе блокировал бы его целиком
func (r *queryCache) InvalidateAll(ctx context.Context) error {
	removed := 0
	for _, pattern := range cachedKeyPatterns {
		iter := r.client.Scan(ctx, 0, pattern, 200).Iterator()

		batch := make([]string, 0, 200)
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == cap(batch) {
				if err := r.client.Del(ctx, batch...).Err(); err != nil {
					return fmt.Errorf("cache invalidate error: %w", err)
				}
				removed += len(batch)
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("cache scan error: %w", err)
		}

		if len(batch) > 0 {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("cache invalidate error: %w", err)
			}
			removed += len(batch)
		}
	}

	r.logger.Debug("Query cache invalidated", zap.Int("keys", removed))
	return nil
}

func (r *queryCache) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
