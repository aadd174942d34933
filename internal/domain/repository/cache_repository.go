package repository

import (
	"context"
	"time"
)

// QueryCache определяет методы кеша результатов запросов.
// Ключи солятся генерацией активного снапшота; публикация нового снапшота
// сопровождается полной инвалидацией.
type QueryCache interface {
	// Get получает значение из кеша; (nil, nil) при промахе
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// InvalidateAll сбрасывает кеш целиком
	InvalidateAll(ctx context.Context) error

	// Health проверяет доступность кеша
	Health(ctx context.Context) error
}
