package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/domain/repository"
)

// Внутрипроцессный кеш для одноузловых запусков без Redis.
// Интерфейс тот же, инвалидация - полный сброс.
type memoryCache struct {
	cache  *gocache.Cache
	logger *zap.Logger
}

func NewMemoryCache(defaultTTL time.Duration, logger *zap.Logger) repository.QueryCache {
	cleanup := 2 * defaultTTL
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}

	logger.Info("In-memory query cache ready", zap.Duration("default_ttl", defaultTTL))

	return &memoryCache{
		cache:  gocache.New(defaultTTL, cleanup),
		logger: logger,
	}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, found := m.cache.Get(key)
	if !found {
		return nil, nil // Cache miss
	}

	data, ok := val.([]byte)
	if !ok {
		return nil, nil
	}
	return data, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.cache.Set(key, value, ttl)
	return nil
}

func (m *memoryCache) InvalidateAll(ctx context.Context) error {
	m.cache.Flush()
	return nil
}

func (m *memoryCache) Health(ctx context.Context) error {
	return nil
}
