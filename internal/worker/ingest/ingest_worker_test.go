package ingest_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/dedup"
	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/normalize"
	"github.com/fuelstation-microservice/internal/snapshot"
	"github.com/fuelstation-microservice/internal/usecase"
	"github.com/fuelstation-microservice/internal/worker/ingest"
)

// MockFeedSource is a mock of FeedSource
type MockFeedSource struct {
	mock.Mock
}

func (m *MockFeedSource) Fetch(ctx context.Context) ([]domain.RawStationRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawStationRecord), args.Error(1)
}

func (m *MockFeedSource) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockFeedSource) Close() error {
	args := m.Called()
	return args.Error(0)
}

// newPipeline собирает конвейер без стора и стрима: flush публикует
// снапшот только в память
func newPipeline(t *testing.T) (*usecase.IngestUseCase, *snapshot.Manager) {
	t.Helper()
	logger := zap.NewNop()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC))

	manager := snapshot.NewManager(nil, logger, nil)
	uc := usecase.NewIngestUseCase(
		normalize.NewNormalizer(clock, logger, nil),
		dedup.NewDeduplicator(dedup.Config{}, logger, nil),
		snapshot.NewBuilder(0.1, clock, logger, nil),
		manager,
		nil,
		nil,
		logger,
		5,
	)
	return uc, manager
}

func rawBatch() []domain.RawStationRecord {
	return []domain.RawStationRecord{
		{ID: "anp_1", Name: "Posto Alfa", Latitude: "-23.5613", Longitude: "-46.6558", State: "SP"},
		{ID: "anp_2", Name: "Posto Beta", Latitude: "-22.9056", Longitude: "-47.0608", State: "SP"},
	}
}

func TestIngestWorker_Name(t *testing.T) {
	source := &MockFeedSource{}
	uc, _ := newPipeline(t)

	w := ingest.NewIngestWorker(source, uc, 10, time.Minute, time.Minute,
		clockwork.NewRealClock(), nil, zap.NewNop())

	assert.Equal(t, "feed-ingest", w.Name())
}

func TestIngestWorker_FlushBySize(t *testing.T) {
	source := &MockFeedSource{}
	uc, manager := newPipeline(t)

	// Первая порция добирает порог, дальше источник пуст
	source.On("Name").Return("file")
	source.On("Fetch", mock.Anything).Return(rawBatch(), nil).Once()
	source.On("Fetch", mock.Anything).Return([]domain.RawStationRecord{}, nil)

	w := ingest.NewIngestWorker(source, uc, 2, time.Hour, time.Hour,
		clockwork.NewRealClock(), nil, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		done <- w.Start(context.Background())
	}()

	require.Eventually(t, manager.Ready, 2*time.Second, 10*time.Millisecond)

	snap, err := manager.Current()
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())

	require.NoError(t, w.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Worker did not stop in time")
	}
}

func TestIngestWorker_FlushByInterval(t *testing.T) {
	source := &MockFeedSource{}
	uc, manager := newPipeline(t)

	// Порог не добирается, сброс происходит по таймеру
	source.On("Name").Return("file")
	source.On("Fetch", mock.Anything).Return(rawBatch(), nil).Once()
	source.On("Fetch", mock.Anything).Return([]domain.RawStationRecord{}, nil)

	w := ingest.NewIngestWorker(source, uc, 100, 50*time.Millisecond, time.Hour,
		clockwork.NewRealClock(), nil, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		done <- w.Start(context.Background())
	}()

	require.Eventually(t, manager.Ready, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, w.Stop())
	<-done
}

func TestIngestWorker_FinalFlushOnStop(t *testing.T) {
	source := &MockFeedSource{}
	uc, manager := newPipeline(t)

	source.On("Name").Return("file")
	source.On("Fetch", mock.Anything).Return(rawBatch(), nil).Once()
	source.On("Fetch", mock.Anything).Return([]domain.RawStationRecord{}, nil)

	// Ни порог, ни таймер не сработают до остановки
	w := ingest.NewIngestWorker(source, uc, 100, time.Hour, time.Hour,
		clockwork.NewRealClock(), nil, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		done <- w.Start(context.Background())
	}()

	time.Sleep(200 * time.Millisecond)
	assert.False(t, manager.Ready())

	require.NoError(t, w.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Worker did not stop in time")
	}

	// Накопленный буфер ушёл в конвейер при остановке
	assert.True(t, manager.Ready())
	snap, err := manager.Current()
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
}

func TestIngestWorker_FetchErrorKeepsRunning(t *testing.T) {
	source := &MockFeedSource{}
	uc, manager := newPipeline(t)

	source.On("Name").Return("http")
	source.On("Fetch", mock.Anything).Return(nil, assert.AnError).Once()
	source.On("Fetch", mock.Anything).Return(rawBatch(), nil).Once()
	source.On("Fetch", mock.Anything).Return([]domain.RawStationRecord{}, nil)

	w := ingest.NewIngestWorker(source, uc, 2, time.Hour, time.Hour,
		clockwork.NewRealClock(), nil, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		done <- w.Start(context.Background())
	}()

	// Пауза после ошибки - секунда, ждём с запасом
	require.Eventually(t, manager.Ready, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, w.Stop())
	<-done
}

func TestIngestWorker_ContextCancellation(t *testing.T) {
	source := &MockFeedSource{}
	uc, _ := newPipeline(t)

	source.On("Name").Return("file")
	source.On("Fetch", mock.Anything).Return([]domain.RawStationRecord{}, nil)

	w := ingest.NewIngestWorker(source, uc, 10, time.Hour, 10*time.Millisecond,
		clockwork.NewRealClock(), nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.Equal(t, context.Canceled, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Worker did not stop on context cancellation")
	}
}
