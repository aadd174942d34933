package rebuild

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/domain/repository"
	"github.com/fuelstation-microservice/internal/worker"
)

// SnapshotRestorer перечитывает сохранённые генерации снапшота из стора
type SnapshotRestorer interface {
	RestoreLatest(ctx context.Context) error
	RestoreGeneration(ctx context.Context, generation string) error
}

// RebuildWorker держит снапшот API-процесса свежим. Основной канал - событие
// о сборке из Redis Stream, страховочный - периодический опрос стора.
// Без Redis воркер живёт на одном поллинге.
type RebuildWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	restorer     SnapshotRestorer
	clock        clockwork.Clock
	pollInterval time.Duration
	consumerName string
}

// NewRebuildWorker создает новый RebuildWorker. streamRepo может быть nil,
// тогда остаётся только опрос стора.
func NewRebuildWorker(
	streamRepo repository.StreamRepository,
	restorer SnapshotRestorer,
	consumerGroup string,
	pollInterval time.Duration,
	clock clockwork.Clock,
	logger *zap.Logger,
) *RebuildWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	return &RebuildWorker{
		BaseWorker:   worker.NewBaseWorker("snapshot-rebuild", consumerGroup, logger),
		streamRepo:   streamRepo,
		restorer:     restorer,
		clock:        clock,
		pollInterval: pollInterval,
		consumerName: consumerName,
	}
}

// Start запускает воркер
func (w *RebuildWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting rebuild worker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Duration("poll_interval", w.pollInterval))

	msgChan := w.subscribe(ctx)

	ticker := w.clock.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case msg, ok := <-msgChan:
			if !ok {
				// Канал закрылся, дальше живём на одном поллинге
				logger.Warn("Snapshot event channel closed, store polling only")
				msgChan = nil
				continue
			}
			w.handleEvent(ctx, msg)

		case <-ticker.Chan():
			if err := w.restorer.RestoreLatest(ctx); err != nil {
				logger.Error("Periodic snapshot reload failed", zap.Error(err))
			}
		}
	}
}

// subscribe подключается к стриму событий. Любая ошибка здесь не фатальна:
// чтение по nil-каналу блокируется навсегда и select работает только по тикеру.
func (w *RebuildWorker) subscribe(ctx context.Context) <-chan domain.StreamMessage {
	if w.streamRepo == nil {
		return nil
	}

	logger := w.Logger()

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamSnapshotBuilt, w.ConsumerGroup()); err != nil {
		logger.Warn("Stream unavailable, falling back to store polling", zap.Error(err))
		return nil
	}

	msgChan, err := w.streamRepo.ConsumeStream(ctx, domain.StreamSnapshotBuilt, w.ConsumerGroup(), w.consumerName)
	if err != nil {
		logger.Warn("Failed to consume stream, falling back to store polling", zap.Error(err))
		return nil
	}

	return msgChan
}

// handleEvent загружает генерацию из события о сборке
func (w *RebuildWorker) handleEvent(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger()

	var event domain.SnapshotBuiltEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Warn("Malformed snapshot event, skipping",
			zap.String("message_id", msg.ID),
			zap.Error(err))
		// Битое сообщение подтверждаем, чтобы не застревало
		w.ack(ctx, msg.ID)
		return
	}

	logger.Info("Snapshot built event received",
		zap.String("generation", event.Generation),
		zap.Int("total_count", event.TotalCount),
		zap.String("feed_source", event.FeedSource))

	if err := w.restorer.RestoreGeneration(ctx, event.Generation); err != nil {
		logger.Error("Failed to load snapshot generation",
			zap.String("generation", event.Generation),
			zap.Error(err))
		// Без ACK; отставание закроет периодический опрос стора
		return
	}

	w.ack(ctx, msg.ID)
}

func (w *RebuildWorker) ack(ctx context.Context, messageID string) {
	if err := w.streamRepo.AckMessage(ctx, domain.StreamSnapshotBuilt, w.ConsumerGroup(), messageID); err != nil {
		w.Logger().Error("Failed to acknowledge message",
			zap.String("message_id", messageID),
			zap.Error(err))
	}
}
