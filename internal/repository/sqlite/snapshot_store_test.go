package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/domain/repository"
	"github.com/fuelstation-microservice/internal/repository/sqlite"
)

func floatPtr(v float64) *float64 { return &v }

func generationData(generation string, builtAt time.Time) *domain.SnapshotData {
	collected := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return &domain.SnapshotData{
		Meta: domain.SnapshotMeta{
			Generation:  generation,
			BuiltAt:     builtAt,
			TotalCount:  2,
			TotalStates: 1,
			TotalCities: 2,
			TotalBrands: 2,
		},
		Records: []domain.StationRecord{
			{
				ID: "st_1", Name: "Posto Ipiranga Centro", Brand: "ipiranga",
				Address: "Av. Paulista, 1000", Neighborhood: "Bela Vista",
				City: "Sao Paulo", State: "SP",
				Latitude: -23.5613, Longitude: -46.6558,
				PriceGasoline: floatPtr(5.79), PriceEthanol: floatPtr(3.89),
				CollectedAt: collected, Source: "anp",
				MergedSources: []string{"anp", "minasgas"},
			},
			{
				ID: "st_2", Name: "Posto Shell Rodovia", Brand: "shell",
				City: "Campinas", State: "SP",
				Latitude: -22.9056, Longitude: -47.0608,
				PriceDiesel: floatPtr(6.10),
				CollectedAt: collected.Add(24 * time.Hour), Source: "anp",
			},
		},
	}
}

func newStore(t *testing.T) repository.SnapshotStore {
	t.Helper()

	s, err := sqlite.New(filepath.Join(t.TempDir(), "snapshots.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSnapshotStore_SaveAndLoadLatest(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	older := generationData("gen-1", time.Date(2026, 3, 19, 6, 0, 0, 0, time.UTC))
	newer := generationData("gen-2", time.Date(2026, 3, 20, 6, 0, 0, 0, time.UTC))

	require.NoError(t, store.Save(ctx, older))
	require.NoError(t, store.Save(ctx, newer))

	loaded, err := store.LoadLatest(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, "gen-2", loaded.Meta.Generation)
	assert.True(t, loaded.Meta.BuiltAt.Equal(newer.Meta.BuiltAt))
	assert.Equal(t, 2, loaded.Meta.TotalCount)

	require.Len(t, loaded.Records, 2)
	first := loaded.Records[0]
	assert.Equal(t, "st_1", first.ID)
	assert.Equal(t, "Posto Ipiranga Centro", first.Name)
	assert.Equal(t, -23.5613, first.Latitude)
	require.NotNil(t, first.PriceGasoline)
	assert.Equal(t, 5.79, *first.PriceGasoline)
	assert.Nil(t, first.PriceDiesel)
	assert.Equal(t, []string{"anp", "minasgas"}, first.MergedSources)
	assert.True(t, first.CollectedAt.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)))

	second := loaded.Records[1]
	assert.Equal(t, "st_2", second.ID)
	assert.Nil(t, second.PriceGasoline)
	assert.Nil(t, second.MergedSources)
}

func TestSnapshotStore_EmptyStore(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	loaded, err := store.LoadLatest(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSnapshotStore_LoadGeneration(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	data := generationData("gen-1", time.Date(2026, 3, 19, 6, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, data))

	loaded, err := store.LoadGeneration(ctx, "gen-1")
	require.NoError(t, err)
	assert.Equal(t, "gen-1", loaded.Meta.Generation)
	assert.Len(t, loaded.Records, 2)

	_, err = store.LoadGeneration(ctx, "gen-404")
	assert.Error(t, err)
}

func TestSnapshotStore_SaveDuplicateGenerationFails(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	data := generationData("gen-1", time.Date(2026, 3, 19, 6, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, data))
	assert.Error(t, store.Save(ctx, data))
}

func TestSnapshotStore_ListGenerations(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	base := time.Date(2026, 3, 17, 6, 0, 0, 0, time.UTC)
	for i, gen := range []string{"gen-1", "gen-2", "gen-3"} {
		require.NoError(t, store.Save(ctx, generationData(gen, base.Add(time.Duration(i)*24*time.Hour))))
	}

	metas, err := store.ListGenerations(ctx, 2)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "gen-3", metas[0].Generation)
	assert.Equal(t, "gen-2", metas[1].Generation)

	all, err := store.ListGenerations(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSnapshotStore_Prune(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	base := time.Date(2026, 3, 17, 6, 0, 0, 0, time.UTC)
	for i, gen := range []string{"gen-1", "gen-2", "gen-3"} {
		require.NoError(t, store.Save(ctx, generationData(gen, base.Add(time.Duration(i)*24*time.Hour))))
	}

	removed, err := store.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	metas, err := store.ListGenerations(ctx, 0)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "gen-3", metas[0].Generation)

	// Станции удалённой генерации ушли вместе с ней
	_, err = store.LoadGeneration(ctx, "gen-1")
	assert.Error(t, err)

	// Прюнинг, которому нечего удалять, не трогает стор
	removed, err = store.Prune(ctx, 5)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSnapshotStore_Health(t *testing.T) {
	store := newStore(t)
	assert.NoError(t, store.Health(context.Background()))
}
