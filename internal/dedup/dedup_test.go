package dedup_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/dedup"
	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/pkg/metrics"
)

func newDeduplicator(t *testing.T) *dedup.Deduplicator {
	t.Helper()
	return dedup.NewDeduplicator(dedup.Config{}, zap.NewNop(), metrics.NewMetricsForTesting())
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestDeduplicate_SingletonPassesThrough(t *testing.T) {
	d := newDeduplicator(t)

	original := domain.StationRecord{
		ID:            "st_1",
		Name:          "Posto Central",
		Latitude:      -23.5505,
		Longitude:     -46.6333,
		PriceGasoline: floatPtr(5.79),
		CollectedAt:   day(10),
		Source:        "anp",
	}

	out, stats := d.Deduplicate([]domain.StationRecord{original})

	require.Len(t, out, 1)
	assert.Equal(t, original, out[0], "a lone record is emitted unchanged")
	assert.Nil(t, out[0].MergedSources, "no merged_sources on untouched records")
	assert.Zero(t, stats.MergedGroups)
}

func TestDeduplicate_MergesWithinThreshold(t *testing.T) {
	d := newDeduplicator(t)

	out, stats := d.Deduplicate([]domain.StationRecord{
		{
			ID: "anp_1", Name: "Posto A",
			Latitude: -23.5505, Longitude: -46.6333,
			PriceGasoline: floatPtr(5.79),
			CollectedAt:   day(12), Source: "anp",
		},
		{
			ID: "mg_9", Name: "Posto A filial",
			Latitude: -23.5509, Longitude: -46.6338,
			PriceGasoline: floatPtr(5.85), PriceEthanol: floatPtr(3.99),
			CollectedAt: day(10), Source: "minasgas",
		},
	})

	require.Len(t, out, 1, "near-duplicates collapse into one record")
	assert.Equal(t, 1, stats.MergedGroups)
	assert.Equal(t, 2, stats.InputCount)
	assert.Equal(t, 1, stats.OutputCount)

	merged := out[0]
	assert.Equal(t, "anp_1", merged.ID, "the most recent record is the base")
	require.NotNil(t, merged.PriceGasoline)
	assert.Equal(t, 5.79, *merged.PriceGasoline, "base price wins over older ones")
	require.NotNil(t, merged.PriceEthanol)
	assert.Equal(t, 3.99, *merged.PriceEthanol, "missing base price is backfilled from an older record")
	assert.Equal(t, []string{"anp", "minasgas"}, merged.MergedSources, "sources union, sorted")
}

func TestDeduplicate_BackfillScansInRecencyOrder(t *testing.T) {
	d := newDeduplicator(t)

	out, _ := d.Deduplicate([]domain.StationRecord{
		{ID: "newest", Latitude: -23.5505, Longitude: -46.6333, CollectedAt: day(15), Source: "a"},
		{ID: "middle", Latitude: -23.5506, Longitude: -46.6334, PriceDiesel: floatPtr(6.10), CollectedAt: day(12), Source: "b"},
		{ID: "oldest", Latitude: -23.5507, Longitude: -46.6335, PriceDiesel: floatPtr(6.50), CollectedAt: day(5), Source: "c"},
	})

	require.Len(t, out, 1)
	require.NotNil(t, out[0].PriceDiesel)
	assert.Equal(t, 6.10, *out[0].PriceDiesel, "the first non-missing value in recency order wins")
	assert.Equal(t, "newest", out[0].ID)
	assert.Equal(t, []string{"a", "b", "c"}, out[0].MergedSources)
}

func TestDeduplicate_TransitiveChainMerges(t *testing.T) {
	d := newDeduplicator(t)

	// A~B and B~C are within the 0.05 threshold, A~C is not (0.08 apart).
	// Single-linkage still pulls all three into one group.
	out, stats := d.Deduplicate([]domain.StationRecord{
		{ID: "a", Latitude: 0.001, Longitude: 0.001, CollectedAt: day(1), Source: "s1"},
		{ID: "b", Latitude: 0.041, Longitude: 0.001, CollectedAt: day(2), Source: "s2"},
		{ID: "c", Latitude: 0.081, Longitude: 0.001, CollectedAt: day(3), Source: "s3"},
	})

	require.Len(t, out, 1)
	assert.Equal(t, 1, stats.MergedGroups)
	assert.Equal(t, "c", out[0].ID, "most recent member is the base")
	assert.Equal(t, []string{"s1", "s2", "s3"}, out[0].MergedSources)
}

func TestDeduplicate_PerAxisThreshold(t *testing.T) {
	d := newDeduplicator(t)

	// Latitudes are identical but longitudes differ by 0.06 > 0.05:
	// similarity is per-axis, both deltas must stay within the threshold.
	out, stats := d.Deduplicate([]domain.StationRecord{
		{ID: "a", Latitude: 0.01, Longitude: 0.001, CollectedAt: day(1)},
		{ID: "b", Latitude: 0.01, Longitude: 0.061, CollectedAt: day(2)},
	})

	assert.Len(t, out, 2)
	assert.Zero(t, stats.MergedGroups)
}

func TestDeduplicate_NoCrossCellMerge(t *testing.T) {
	d := newDeduplicator(t)

	// 0.002 degrees apart, well within the threshold, but the records sit in
	// different grid cells. Per-cell comparison keeps them separate.
	out, stats := d.Deduplicate([]domain.StationRecord{
		{ID: "west", Latitude: 0.01, Longitude: 0.099, CollectedAt: day(1), Source: "a"},
		{ID: "east", Latitude: 0.01, Longitude: 0.101, CollectedAt: day(2), Source: "b"},
	})

	assert.Len(t, out, 2, "cell boundary prevents the merge by design")
	assert.Zero(t, stats.MergedGroups)
}

func TestDeduplicate_OutputOrderIsDeterministic(t *testing.T) {
	d := newDeduplicator(t)

	records := []domain.StationRecord{
		{ID: "fortaleza", Latitude: -3.7319, Longitude: -38.5267, CollectedAt: day(1)},
		{ID: "sp_1", Latitude: -23.5505, Longitude: -46.6333, CollectedAt: day(2), Source: "anp"},
		{ID: "rio", Latitude: -22.9068, Longitude: -43.1729, CollectedAt: day(3)},
		{ID: "sp_2", Latitude: -23.5506, Longitude: -46.6334, CollectedAt: day(1), Source: "mg"},
	}

	for i := 0; i < 5; i++ {
		out, _ := d.Deduplicate(records)
		require.Len(t, out, 3)
		assert.Equal(t, "fortaleza", out[0].ID)
		assert.Equal(t, "sp_1", out[1].ID, "merged group anchors at its earliest member position")
		assert.Equal(t, "rio", out[2].ID)
	}
}

func TestDeduplicate_MergedSourcesPropagate(t *testing.T) {
	d := newDeduplicator(t)

	// A record that already carries merged_sources from a previous pass
	// contributes them to the union.
	out, _ := d.Deduplicate([]domain.StationRecord{
		{ID: "a", Latitude: 0.01, Longitude: 0.01, CollectedAt: day(5), Source: "anp", MergedSources: []string{"anp", "webmotors"}},
		{ID: "b", Latitude: 0.011, Longitude: 0.011, CollectedAt: day(2), Source: "mg"},
	})

	require.Len(t, out, 1)
	assert.Equal(t, []string{"anp", "mg", "webmotors"}, out[0].MergedSources)
}

func TestDeduplicate_EmptyInput(t *testing.T) {
	d := newDeduplicator(t)

	out, stats := d.Deduplicate(nil)
	assert.Empty(t, out)
	assert.Zero(t, stats.InputCount)
	assert.Zero(t, stats.OutputCount)
}
