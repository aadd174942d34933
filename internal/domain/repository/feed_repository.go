package repository

import (
	"context"

	"github.com/fuelstation-microservice/internal/domain"
)

// FeedSource определяет источник сырого фида станций.
// Реализации: kafka (батчи из топика), file (json-файлы из каталога),
// http (периодический pull по URL).
type FeedSource interface {
	// Fetch возвращает очередную порцию сырых записей.
	// Пустой срез без ошибки означает, что новых данных пока нет.
	Fetch(ctx context.Context) ([]domain.RawStationRecord, error)

	// Name возвращает имя источника для логов и событий
	Name() string

	// Close освобождает ресурсы источника
	Close() error
}
