package snapshot_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/fuelstation-microservice/internal/pkg/errors"
	"github.com/fuelstation-microservice/internal/pkg/metrics"
	"github.com/fuelstation-microservice/internal/snapshot"
)

// MockQueryCache is a mock of QueryCache
type MockQueryCache struct {
	mock.Mock
}

func (m *MockQueryCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockQueryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockQueryCache) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockQueryCache) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newManager(cache *MockQueryCache) *snapshot.Manager {
	if cache == nil {
		return snapshot.NewManager(nil, zap.NewNop(), metrics.NewMetricsForTesting())
	}
	return snapshot.NewManager(cache, zap.NewNop(), metrics.NewMetricsForTesting())
}

func TestManager_CurrentBeforePublish(t *testing.T) {
	m := newManager(nil)

	snap, err := m.Current()

	assert.Nil(t, snap)
	assert.ErrorIs(t, err, apperrors.ErrSnapshotUnavailable, "no data is an error, unlike an empty result")
	assert.False(t, m.Ready())
}

func TestManager_PublishAndCurrent(t *testing.T) {
	cache := new(MockQueryCache)
	cache.On("InvalidateAll", mock.Anything).Return(nil)
	m := newManager(cache)

	built := newBuilder(t).Build(testStations())
	m.Publish(context.Background(), built)

	current, err := m.Current()
	require.NoError(t, err)
	assert.Same(t, built, current)
	assert.True(t, m.Ready())
	cache.AssertNumberOfCalls(t, "InvalidateAll", 1)
}

func TestManager_PublishIsIdempotent(t *testing.T) {
	cache := new(MockQueryCache)
	cache.On("InvalidateAll", mock.Anything).Return(nil)
	m := newManager(cache)

	built := newBuilder(t).Build(testStations())
	m.Publish(context.Background(), built)
	m.Publish(context.Background(), built)

	current, err := m.Current()
	require.NoError(t, err)
	assert.Same(t, built, current)
	// re-publishing the active generation is a no-op
	cache.AssertNumberOfCalls(t, "InvalidateAll", 1)
}

func TestManager_PublishReplacesGeneration(t *testing.T) {
	cache := new(MockQueryCache)
	cache.On("InvalidateAll", mock.Anything).Return(nil)
	m := newManager(cache)

	b := newBuilder(t)
	first := b.Build(testStations())
	second := b.Build(testStations()[:2])

	m.Publish(context.Background(), first)
	m.Publish(context.Background(), second)

	current, err := m.Current()
	require.NoError(t, err)
	assert.Same(t, second, current)
	assert.Equal(t, 2, current.Len())
	cache.AssertNumberOfCalls(t, "InvalidateAll", 2)
}

func TestManager_InFlightReaderKeepsOldSnapshot(t *testing.T) {
	m := newManager(nil)
	b := newBuilder(t)

	first := b.Build(testStations())
	m.Publish(context.Background(), first)

	inFlight, err := m.Current()
	require.NoError(t, err)

	second := b.Build(testStations()[:1])
	m.Publish(context.Background(), second)

	// Запрос, начавший с прежним снапшотом, дочитывает его целиком
	rec, ok := inFlight.RecordByID("st_5")
	assert.True(t, ok)
	assert.Equal(t, "Posto Beira Mar", rec.Name)

	current, err := m.Current()
	require.NoError(t, err)
	assert.Same(t, second, current)
}

func TestManager_CacheFailureDoesNotBlockPublish(t *testing.T) {
	cache := new(MockQueryCache)
	cache.On("InvalidateAll", mock.Anything).Return(errors.New("redis: connection refused"))
	m := newManager(cache)

	built := newBuilder(t).Build(testStations())
	m.Publish(context.Background(), built)

	current, err := m.Current()
	require.NoError(t, err)
	assert.Same(t, built, current, "a cache outage must not prevent the swap")
}

func TestManager_PublishNilSnapshot(t *testing.T) {
	m := newManager(nil)

	m.Publish(context.Background(), nil)

	assert.False(t, m.Ready())
}
