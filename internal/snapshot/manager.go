package snapshot

import (
	"context"
	"sync/atomic"

	"github.com/fuelstation-microservice/internal/domain/repository"
	apperrors "github.com/fuelstation-microservice/internal/pkg/errors"
	"github.com/fuelstation-microservice/internal/pkg/metrics"
	"go.uber.org/zap"
)

// Manager владеет единственным активным снапшотом процесса.
// Чтение идёт через атомарный указатель без блокировок: запрос в полёте
// дочитывает тот снапшот, с которым начал, даже если публикация уже
// заменила активный.
type Manager struct {
	current atomic.Pointer[Snapshot]
	cache   repository.QueryCache
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewManager создаёт менеджер без активного снапшота.
// cache может быть nil, тогда публикация ничего не инвалидирует.
func NewManager(cache repository.QueryCache, logger *zap.Logger, m *metrics.Metrics) *Manager {
	return &Manager{
		cache:   cache,
		logger:  logger,
		metrics: m,
	}
}

// Current возвращает активный снапшот. До первой публикации возвращается
// ErrSnapshotUnavailable: отсутствие данных отличается от пустого результата.
func (m *Manager) Current() (*Snapshot, error) {
	snap := m.current.Load()
	if snap == nil {
		return nil, apperrors.ErrSnapshotUnavailable
	}
	return snap, nil
}

// Ready сообщает, опубликован ли хотя бы один снапшот
func (m *Manager) Ready() bool {
	return m.current.Load() != nil
}

// Publish атомарно делает снапшот активным и инвалидирует кеш запросов.
// Повторная публикация уже активной генерации идемпотентна: своп и
// инвалидация пропускаются.
func (m *Manager) Publish(ctx context.Context, snap *Snapshot) {
	if snap == nil {
		return
	}

	prev := m.current.Load()
	if prev != nil && prev.Meta().Generation == snap.Meta().Generation {
		m.logger.Debug("Snapshot generation already active, publish skipped",
			zap.String("generation", snap.Meta().Generation))
		return
	}

	m.current.Store(snap)

	// Кеш хранит ответы прежней генерации, после свопа они устарели
	if m.cache != nil {
		if err := m.cache.InvalidateAll(ctx); err != nil {
			m.logger.Warn("Failed to invalidate query cache after publish",
				zap.Error(err))
		}
	}

	if m.metrics != nil {
		m.metrics.SnapshotPublished.Inc()
		m.metrics.SnapshotTotalStations.Set(float64(snap.Len()))
	}

	m.logger.Info("Snapshot published",
		zap.String("generation", snap.Meta().Generation),
		zap.Time("built_at", snap.Meta().BuiltAt),
		zap.Int("stations", snap.Len()),
	)
}
