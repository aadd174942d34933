package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/dedup"
	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/domain/repository"
	"github.com/fuelstation-microservice/internal/normalize"
	"github.com/fuelstation-microservice/internal/snapshot"
	"github.com/fuelstation-microservice/internal/usecase/dto"
)

// DefaultKeepGenerations - сколько генераций хранит стор после прюнинга
const DefaultKeepGenerations = 5

// IngestUseCase прогоняет сырой пакет через конвейер сборки:
// нормализация, дедупликация, сборка снапшота, сохранение, публикация.
// Сбои стора и стрима не валят конвейер: свежий снапшот публикуется
// в память в любом случае.
type IngestUseCase struct {
	normalizer *normalize.Normalizer
	dedup      *dedup.Deduplicator
	builder    *snapshot.Builder
	snapshots  *snapshot.Manager
	store      repository.SnapshotStore
	events     repository.StreamRepository
	logger     *zap.Logger
	keep       int
}

// NewIngestUseCase - создание нового IngestUseCase.
// store и events могут быть nil: без стора снапшоты живут только в памяти,
// без стрима события о сборке не публикуются.
func NewIngestUseCase(
	normalizer *normalize.Normalizer,
	dedup *dedup.Deduplicator,
	builder *snapshot.Builder,
	snapshots *snapshot.Manager,
	store repository.SnapshotStore,
	events repository.StreamRepository,
	logger *zap.Logger,
	keepGenerations int,
) *IngestUseCase {
	if keepGenerations <= 0 {
		keepGenerations = DefaultKeepGenerations
	}
	return &IngestUseCase{
		normalizer: normalizer,
		dedup:      dedup,
		builder:    builder,
		snapshots:  snapshots,
		store:      store,
		events:     events,
		logger:     logger,
		keep:       keepGenerations,
	}
}

// IngestBatch собирает и публикует новую генерацию из сырого пакета.
// Пакет без единой валидной записи не публикуется: пустой снапшот
// стёр бы рабочий датасет.
func (uc *IngestUseCase) IngestBatch(ctx context.Context, source string, raws []domain.RawStationRecord) (*dto.IngestSummary, error) {
	start := time.Now()

	norm := uc.normalizer.Normalize(raws)
	if len(norm.Valid) == 0 {
		uc.logger.Warn("Ingest batch has no valid records, keeping current snapshot",
			zap.String("source", source),
			zap.Int("received", len(raws)),
			zap.Int("rejected", norm.RejectedCount()))
		return &dto.IngestSummary{
			Received: len(raws),
			Rejected: norm.RejectedCount(),
		}, nil
	}

	deduped, dstats := uc.dedup.Deduplicate(norm.Valid)
	snap := uc.builder.Build(deduped)

	saved := uc.save(ctx, snap)

	uc.snapshots.Publish(ctx, snap)

	if saved {
		uc.publishEvent(ctx, snap, source)
	}

	summary := &dto.IngestSummary{
		Generation:   snap.Meta().Generation,
		Received:     len(raws),
		Rejected:     norm.RejectedCount(),
		MergedGroups: dstats.MergedGroups,
		Indexed:      snap.Len(),
	}

	uc.logger.Info("Ingest batch processed",
		zap.String("source", source),
		zap.String("generation", summary.Generation),
		zap.Int("received", summary.Received),
		zap.Int("rejected", summary.Rejected),
		zap.Int("merged_groups", summary.MergedGroups),
		zap.Int("indexed", summary.Indexed),
		zap.Duration("took", time.Since(start)))

	return summary, nil
}

// save пишет генерацию в стор и прюнит старые.
// Возвращает false при сбое: событие о несохранённой генерации
// подписчикам бесполезно, им нечего будет загрузить.
func (uc *IngestUseCase) save(ctx context.Context, snap *snapshot.Snapshot) bool {
	if uc.store == nil {
		return false
	}

	if err := uc.store.Save(ctx, snap.Data()); err != nil {
		uc.logger.Error("Failed to save snapshot generation",
			zap.String("generation", snap.Meta().Generation),
			zap.Error(err))
		return false
	}

	removed, err := uc.store.Prune(ctx, uc.keep)
	if err != nil {
		uc.logger.Warn("Failed to prune old generations", zap.Error(err))
	} else if removed > 0 {
		uc.logger.Debug("Pruned old generations",
			zap.Int("removed", removed),
			zap.Int("keep", uc.keep))
	}

	return true
}

func (uc *IngestUseCase) publishEvent(ctx context.Context, snap *snapshot.Snapshot, source string) {
	if uc.events == nil {
		return
	}

	meta := snap.Meta()
	event := domain.SnapshotBuiltEvent{
		Generation: meta.Generation,
		BuiltAt:    meta.BuiltAt,
		TotalCount: meta.TotalCount,
		FeedSource: source,
	}

	if err := uc.events.PublishToStream(ctx, domain.StreamSnapshotBuilt, event); err != nil {
		uc.logger.Warn("Failed to publish snapshot built event",
			zap.String("generation", meta.Generation),
			zap.Error(err))
	}
}

// RestoreLatest загружает самую свежую сохранённую генерацию и публикует её.
// Пустой стор не ошибка: сервис стартует без данных и ждёт первой сборки.
func (uc *IngestUseCase) RestoreLatest(ctx context.Context) error {
	if uc.store == nil {
		return nil
	}

	data, err := uc.store.LoadLatest(ctx)
	if err != nil {
		return fmt.Errorf("load latest snapshot: %w", err)
	}
	if data == nil {
		uc.logger.Info("Snapshot store is empty, waiting for first build")
		return nil
	}

	snap := uc.builder.Restore(data)
	uc.snapshots.Publish(ctx, snap)

	uc.logger.Info("Restored snapshot from store",
		zap.String("generation", data.Meta.Generation),
		zap.Int("stations", len(data.Records)))
	return nil
}

// RestoreGeneration загружает конкретную генерацию (из события о сборке)
// и публикует её
func (uc *IngestUseCase) RestoreGeneration(ctx context.Context, generation string) error {
	if generation == "" {
		return uc.RestoreLatest(ctx)
	}
	if uc.store == nil {
		return nil
	}

	data, err := uc.store.LoadGeneration(ctx, generation)
	if err != nil {
		return fmt.Errorf("load snapshot generation %s: %w", generation, err)
	}

	snap := uc.builder.Restore(data)
	uc.snapshots.Publish(ctx, snap)

	uc.logger.Info("Restored snapshot generation from store",
		zap.String("generation", generation),
		zap.Int("stations", len(data.Records)))
	return nil
}
