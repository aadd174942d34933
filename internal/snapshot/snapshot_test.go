package snapshot_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/index"
	"github.com/fuelstation-microservice/internal/pkg/metrics"
	"github.com/fuelstation-microservice/internal/snapshot"
)

var buildTime = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

func newBuilder(t *testing.T) *snapshot.Builder {
	t.Helper()
	clock := clockwork.NewFakeClockAt(buildTime)
	return snapshot.NewBuilder(0, clock, zap.NewNop(), metrics.NewMetricsForTesting())
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func floatPtr(v float64) *float64 {
	return &v
}

func testStations() []domain.StationRecord {
	return []domain.StationRecord{
		{ID: "st_1", Name: "Posto Ipiranga Paulista", Brand: "ipiranga", City: "Sao Paulo", State: "SP", Latitude: -23.5613, Longitude: -46.6558, PriceGasoline: floatPtr(5.79), CollectedAt: day(1), Source: "anp"},
		{ID: "st_2", Name: "Shell Avenida", Brand: "shell", City: "Sao Paulo", State: "SP", Latitude: -23.5505, Longitude: -46.6333, PriceEthanol: floatPtr(3.89), CollectedAt: day(2), Source: "anp"},
		{ID: "st_3", Name: "Posto BR Campinas", Brand: "petrobras", City: "Campinas", State: "SP", Latitude: -22.9099, Longitude: -47.0626, CollectedAt: day(1), Source: "scraper"},
		{ID: "st_4", Name: "Shell Copacabana", Brand: "shell", City: "Rio de Janeiro", State: "RJ", Latitude: -22.9714, Longitude: -43.1823, PriceGasoline: floatPtr(6.05), CollectedAt: day(3), Source: "anp"},
		{ID: "st_5", Name: "Posto Beira Mar", Brand: "unbranded", City: "", State: "", Latitude: -3.7319, Longitude: -38.5267, CollectedAt: day(1), Source: "manual"},
	}
}

func TestBuilder_Build(t *testing.T) {
	b := newBuilder(t)

	snap := b.Build(testStations())

	meta := snap.Meta()
	assert.NotEmpty(t, meta.Generation)
	assert.Equal(t, buildTime, meta.BuiltAt)
	assert.Equal(t, 5, meta.TotalCount)
	assert.Equal(t, 2, meta.TotalStates, "records without a state are not indexed")
	assert.Equal(t, 3, meta.TotalCities)
	assert.Equal(t, 4, meta.TotalBrands)
	assert.Equal(t, 5, snap.Len())

	rec, ok := snap.RecordByID("st_3")
	require.True(t, ok)
	assert.Equal(t, "Posto BR Campinas", rec.Name)

	_, ok = snap.RecordByID("missing")
	assert.False(t, ok)
}

func TestBuilder_Build_GenerationsAreUnique(t *testing.T) {
	b := newBuilder(t)

	first := b.Build(testStations())
	second := b.Build(testStations())

	assert.NotEqual(t, first.Meta().Generation, second.Meta().Generation)
}

func TestBuilder_Build_CopiesInput(t *testing.T) {
	b := newBuilder(t)
	input := testStations()

	snap := b.Build(input)
	input[0].Name = "mutated after build"

	rec, ok := snap.RecordByID("st_1")
	require.True(t, ok)
	assert.Equal(t, "Posto Ipiranga Paulista", rec.Name, "the snapshot owns its records")
}

func TestBuilder_Build_Empty(t *testing.T) {
	b := newBuilder(t)

	snap := b.Build(nil)

	assert.Zero(t, snap.Len())
	assert.Zero(t, snap.Meta().TotalCount)
	assert.Empty(t, snap.StateCounts())
	assert.Empty(t, snap.BrandCounts())

	idx := snap.Index(index.StrategyGrid)
	require.NotNil(t, idx, "an empty snapshot still answers queries")
	assert.Zero(t, idx.Len())

	_, ok := snap.RecordByID("st_1")
	assert.False(t, ok)
}

func TestSnapshot_IndexStrategies(t *testing.T) {
	snap := newBuilder(t).Build(testStations())

	tests := []struct {
		strategy string
		wantName string
	}{
		{strategy: index.StrategyGrid, wantName: "grid"},
		{strategy: index.StrategyBBox, wantName: "bbox"},
		{strategy: index.StrategyLinear, wantName: "linear"},
		{strategy: "unknown", wantName: "grid"},
	}

	for _, tt := range tests {
		idx := snap.Index(tt.strategy)
		require.NotNil(t, idx)
		assert.Equal(t, tt.wantName, idx.Name())
		assert.Equal(t, 5, idx.Len(), "every strategy indexes all records")
	}
}

func TestSnapshot_GroupAccessors(t *testing.T) {
	snap := newBuilder(t).Build(testStations())

	sp := snap.ByState("SP")
	require.Len(t, sp, 3)
	assert.Equal(t, "st_1", sp[0].ID, "state members keep snapshot order")
	assert.Equal(t, "st_2", sp[1].ID)
	assert.Equal(t, "st_3", sp[2].ID)

	saoPaulo := snap.ByCity("SP", "Sao Paulo")
	require.Len(t, saoPaulo, 2)
	assert.Equal(t, "st_1", saoPaulo[0].ID)

	assert.Nil(t, snap.ByCity("MG", "Belo Horizonte"))
	assert.Nil(t, snap.ByState("MG"))

	shell := snap.ByBrand("shell")
	require.Len(t, shell, 2)
	assert.Equal(t, "st_2", shell[0].ID)
	assert.Equal(t, "st_4", shell[1].ID)

	assert.True(t, snap.HasState("RJ"))
	assert.False(t, snap.HasState("MG"))
}

func TestSnapshot_Counts(t *testing.T) {
	snap := newBuilder(t).Build(testStations())

	assert.Equal(t, []snapshot.GroupCount{
		{Name: "RJ", Count: 1},
		{Name: "SP", Count: 3},
	}, snap.StateCounts())

	cities, ok := snap.CityCounts("SP")
	require.True(t, ok)
	assert.Equal(t, []snapshot.GroupCount{
		{Name: "Campinas", Count: 1},
		{Name: "Sao Paulo", Count: 2},
	}, cities)

	_, ok = snap.CityCounts("MG")
	assert.False(t, ok, "unknown states are reported, not silently empty")

	assert.Equal(t, []snapshot.GroupCount{
		{Name: "ipiranga", Count: 1},
		{Name: "petrobras", Count: 1},
		{Name: "shell", Count: 2},
		{Name: "unbranded", Count: 1},
	}, snap.BrandCounts())
}

func TestBuilder_Restore(t *testing.T) {
	b := newBuilder(t)
	original := b.Build(testStations())

	restored := b.Restore(original.Data())

	assert.Equal(t, original.Meta(), restored.Meta(), "restore keeps generation and build time")
	assert.Equal(t, original.Len(), restored.Len())

	// Индексы пересобираются заново и должны отвечать так же
	box := domain.BoundingBox{MinLat: -23.6, MinLon: -46.7, MaxLat: -23.5, MaxLon: -46.6}
	ids := restored.Index(index.StrategyGrid).SearchBox(box)
	assert.ElementsMatch(t, []string{"st_1", "st_2"}, ids)
}
