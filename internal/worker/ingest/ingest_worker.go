package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/domain/repository"
	"github.com/fuelstation-microservice/internal/pkg/metrics"
	"github.com/fuelstation-microservice/internal/usecase/dto"
	"github.com/fuelstation-microservice/internal/worker"
)

const (
	// Пауза перед повтором после ошибки источника
	errorBackoff = time.Second

	// Глубина очереди между fetch-горутиной и аккумулятором
	queueDepth = 16
)

// BatchIngester прогоняет пачку сырых записей через конвейер сборки снапшота
type BatchIngester interface {
	IngestBatch(ctx context.Context, source string, raws []domain.RawStationRecord) (*dto.IngestSummary, error)
}

// IngestWorker тянет сырой фид из источника и копит записи до порога.
// Сборка снапшота дорогая, поэтому мелкие порции из Kafka склеиваются:
// пересборка запускается при накоплении flushSize записей или по таймеру.
type IngestWorker struct {
	*worker.BaseWorker
	source        repository.FeedSource
	ingest        BatchIngester
	clock         clockwork.Clock
	metrics       *metrics.Metrics
	flushSize     int
	flushInterval time.Duration
	pollInterval  time.Duration
	queue         chan []domain.RawStationRecord
	wg            sync.WaitGroup
}

// NewIngestWorker создает новый IngestWorker
func NewIngestWorker(
	source repository.FeedSource,
	ingest BatchIngester,
	flushSize int,
	flushInterval time.Duration,
	pollInterval time.Duration,
	clock clockwork.Clock,
	m *metrics.Metrics,
	logger *zap.Logger,
) *IngestWorker {
	return &IngestWorker{
		BaseWorker:    worker.NewBaseWorker("feed-ingest", "", logger),
		source:        source,
		ingest:        ingest,
		clock:         clock,
		metrics:       m,
		flushSize:     flushSize,
		flushInterval: flushInterval,
		pollInterval:  pollInterval,
		queue:         make(chan []domain.RawStationRecord, queueDepth),
	}
}

// Start запускает воркер
func (w *IngestWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting ingest worker",
		zap.String("source", w.source.Name()),
		zap.Int("flush_size", w.flushSize),
		zap.Duration("flush_interval", w.flushInterval))

	w.wg.Add(1)
	go w.fetchLoop(ctx)

	ticker := w.clock.NewTicker(w.flushInterval)
	defer ticker.Stop()

	var pending []domain.RawStationRecord

	for {
		select {
		case <-w.StopChan():
			w.wg.Wait()
			// Добираем очередь и хвост буфера перед выходом
			for {
				select {
				case batch := <-w.queue:
					pending = append(pending, batch...)
				default:
					w.flush(ctx, pending)
					logger.Info("Worker stopped")
					return nil
				}
			}

		case <-ctx.Done():
			logger.Info("Context cancelled")
			w.wg.Wait()
			return ctx.Err()

		case batch := <-w.queue:
			pending = append(pending, batch...)
			if len(pending) >= w.flushSize {
				pending = w.flush(ctx, pending)
			}

		case <-ticker.Chan():
			pending = w.flush(ctx, pending)
		}
	}
}

// fetchLoop опрашивает источник и передаёт непустые порции аккумулятору
func (w *IngestWorker) fetchLoop(ctx context.Context) {
	defer w.wg.Done()
	logger := w.Logger()

	for {
		select {
		case <-w.StopChan():
			return
		case <-ctx.Done():
			return
		default:
		}

		records, err := w.source.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Feed fetch failed",
				zap.String("source", w.source.Name()),
				zap.Error(err))
			w.pause(ctx, errorBackoff)
			continue
		}

		if len(records) == 0 {
			// Новых данных нет, ждём до следующего опроса
			w.pause(ctx, w.pollInterval)
			continue
		}

		if w.metrics != nil {
			w.metrics.FeedBatches.Inc()
			w.metrics.FeedRecords.Add(float64(len(records)))
		}

		select {
		case w.queue <- records:
		case <-w.StopChan():
			return
		case <-ctx.Done():
			return
		}
	}
}

// flush отправляет накопленные записи в конвейер. Возвращает новый
// пустой буфер.
func (w *IngestWorker) flush(ctx context.Context, pending []domain.RawStationRecord) []domain.RawStationRecord {
	if len(pending) == 0 {
		return nil
	}

	logger := w.Logger()

	summary, err := w.ingest.IngestBatch(ctx, w.source.Name(), pending)
	if err != nil {
		// Пачка теряется, следующий полный срез фида её перекроет
		logger.Error("Ingest batch failed",
			zap.Int("records", len(pending)),
			zap.Error(err))
		return nil
	}

	logger.Info("Feed batch ingested",
		zap.String("generation", summary.Generation),
		zap.Int("received", summary.Received),
		zap.Int("rejected", summary.Rejected),
		zap.Int("indexed", summary.Indexed))
	return nil
}

func (w *IngestWorker) pause(ctx context.Context, d time.Duration) {
	select {
	case <-w.clock.After(d):
	case <-w.StopChan():
	case <-ctx.Done():
	}
}
