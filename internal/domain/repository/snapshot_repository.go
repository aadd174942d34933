package repository

import (
	"context"

	"github.com/fuelstation-microservice/internal/domain"
)

// SnapshotStore определяет методы хранилища собранных снапшотов.
// Реализации: sqlite (по умолчанию) и postgres, выбираются конфигурацией.
type SnapshotStore interface {
	// Save сохраняет генерацию целиком (метаданные + записи) одной транзакцией
	Save(ctx context.Context, data *domain.SnapshotData) error

	// LoadLatest загружает самую свежую генерацию; (nil, nil) если стор пуст
	LoadLatest(ctx context.Context) (*domain.SnapshotData, error)

	// LoadGeneration загружает конкретную генерацию по идентификатору
	LoadGeneration(ctx context.Context, generation string) (*domain.SnapshotData, error)

	// ListGenerations возвращает метаданные генераций, новые первыми
	ListGenerations(ctx context.Context, limit int) ([]domain.SnapshotMeta, error)

	// Prune удаляет все генерации старше keep самых свежих
	Prune(ctx context.Context, keep int) (int, error)

	// Health проверяет доступность хранилища
	Health(ctx context.Context) error

	// Close освобождает ресурсы хранилища
	Close() error
}
