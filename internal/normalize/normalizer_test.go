package normalize_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/normalize"
	"github.com/fuelstation-microservice/internal/pkg/metrics"
)

func newNormalizer(t *testing.T) (*normalize.Normalizer, clockwork.Clock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC))
	return normalize.NewNormalizer(clock, zap.NewNop(), metrics.NewMetricsForTesting()), clock
}

func TestNormalizer_ValidRecord(t *testing.T) {
	n, _ := newNormalizer(t)

	result := n.Normalize([]domain.RawStationRecord{
		{
			ID:            "anp_1234",
			Name:          "  Posto Central  ",
			Brand:         "Shell",
			Address:       "Av. Paulista, 1000",
			Neighborhood:  "Bela Vista",
			City:          "Sao Paulo",
			State:         "sp",
			Latitude:      "-23,5505",
			Longitude:     "-46.6333",
			PriceGasoline: "5,79",
			PriceEthanol:  "3.99",
			PriceDiesel:   "N/A",
			CollectedAt:   "2026-03-10",
			Source:        "anp",
		},
	})

	require.Len(t, result.Valid, 1)
	assert.Zero(t, result.RejectedCount())

	r := result.Valid[0]
	assert.Equal(t, "anp_1234", r.ID)
	assert.Equal(t, "Posto Central", r.Name)
	assert.Equal(t, "shell", r.Brand, "brand is lowercased to its canonical form")
	assert.Equal(t, "SP", r.State, "state code is uppercased")
	assert.Equal(t, -23.5505, r.Latitude, "comma decimal separator is accepted")
	assert.Equal(t, -46.6333, r.Longitude)
	require.NotNil(t, r.PriceGasoline)
	assert.Equal(t, 5.79, *r.PriceGasoline)
	require.NotNil(t, r.PriceEthanol)
	assert.Equal(t, 3.99, *r.PriceEthanol)
	assert.Nil(t, r.PriceDiesel, "sentinel N/A becomes unavailable")
	assert.Nil(t, r.PriceCNG, "missing price becomes unavailable")
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), r.CollectedAt)
	assert.Equal(t, "anp", r.Source)
}

func TestNormalizer_RejectInvalidCoordinates(t *testing.T) {
	n, _ := newNormalizer(t)

	tests := []struct {
		name        string
		raw         domain.RawStationRecord
		description string
	}{
		{
			name:        "zero pair",
			raw:         domain.RawStationRecord{Latitude: "0", Longitude: "0"},
			description: "(0,0) marks missing coordinates",
		},
		{
			name:        "unparsable latitude",
			raw:         domain.RawStationRecord{Latitude: "not-a-number", Longitude: "-46.6"},
			description: "garbage text is rejected",
		},
		{
			name:        "missing longitude",
			raw:         domain.RawStationRecord{Latitude: "-23.5"},
			description: "empty coordinate is rejected",
		},
		{
			name:        "latitude out of range",
			raw:         domain.RawStationRecord{Latitude: "123.4", Longitude: "-46.6"},
			description: "coordinates outside [-90,90] are rejected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := n.Normalize([]domain.RawStationRecord{tt.raw})
			assert.Empty(t, result.Valid, tt.description)
			assert.Equal(t, 1, result.RejectedCount(), tt.description)
		})
	}
}

func TestNormalizer_RejectionIsNotFatal(t *testing.T) {
	n, _ := newNormalizer(t)

	result := n.Normalize([]domain.RawStationRecord{
		{ID: "ok_1", Latitude: "-23.5", Longitude: "-46.6"},
		{ID: "bad", Latitude: "0", Longitude: "0"},
		{ID: "ok_2", Latitude: "-22.9", Longitude: "-43.2"},
	})

	require.Len(t, result.Valid, 2)
	assert.Equal(t, 1, result.RejectedCount())
	assert.Equal(t, "ok_1", result.Valid[0].ID)
	assert.Equal(t, "ok_2", result.Valid[1].ID, "order of survivors is preserved")
	assert.Equal(t, "zero coordinate pair", result.Rejected[0].Reason)
}

func TestNormalizer_Defaults(t *testing.T) {
	n, clock := newNormalizer(t)

	result := n.Normalize([]domain.RawStationRecord{
		{Latitude: "-23.5", Longitude: "-46.6"},
	})

	require.Len(t, result.Valid, 1)
	r := result.Valid[0]

	assert.Equal(t, "station_1", r.ID, "missing id is synthesized from the batch sequence")
	assert.Equal(t, domain.DefaultStationName, r.Name)
	assert.Equal(t, domain.DefaultBrand, r.Brand)
	assert.Equal(t, domain.DefaultSource, r.Source)
	assert.Empty(t, r.Address)
	assert.Empty(t, r.City)

	wantDate := time.Date(clock.Now().Year(), clock.Now().Month(), clock.Now().Day(), 0, 0, 0, 0, time.UTC)
	assert.Equal(t, wantDate, r.CollectedAt, "missing collection date falls back to the build date")
}

func TestNormalizer_SyntheticIDsNeverCollide(t *testing.T) {
	n, _ := newNormalizer(t)

	result := n.Normalize([]domain.RawStationRecord{
		{ID: "station_1", Latitude: "-23.5", Longitude: "-46.6"},
		{Latitude: "-22.9", Longitude: "-43.2"},
		{Latitude: "-15.8", Longitude: "-47.9"},
	})

	require.Len(t, result.Valid, 3)
	ids := map[string]bool{}
	for _, r := range result.Valid {
		assert.False(t, ids[r.ID], "id %s repeats", r.ID)
		ids[r.ID] = true
	}
	assert.True(t, ids["station_1"], "explicit id survives")
	assert.True(t, ids["station_2"], "synthesizer skips the taken station_1")
	assert.True(t, ids["station_3"])
}

func TestNormalizer_DuplicateExplicitID(t *testing.T) {
	n, _ := newNormalizer(t)

	result := n.Normalize([]domain.RawStationRecord{
		{ID: "anp_7", Latitude: "-23.5", Longitude: "-46.6"},
		{ID: "anp_7", Latitude: "-22.9", Longitude: "-43.2"},
	})

	require.Len(t, result.Valid, 2, "both stations survive an id clash")
	assert.Equal(t, "anp_7", result.Valid[0].ID)
	assert.NotEqual(t, "anp_7", result.Valid[1].ID, "the later record gets a synthetic id")
}

func TestNormalizer_PriceEdgeCases(t *testing.T) {
	n, _ := newNormalizer(t)

	tests := []struct {
		name        string
		price       domain.FlexString
		wantNil     bool
		want        float64
		description string
	}{
		{name: "regular price", price: "5.49", want: 5.49},
		{name: "comma separator", price: "5,49", want: 5.49},
		{name: "empty", price: "", wantNil: true},
		{name: "sentinel upper", price: "N/A", wantNil: true},
		{name: "sentinel lower", price: "n/a", wantNil: true},
		{name: "zero is not a price", price: "0", wantNil: true},
		{name: "negative is not a price", price: "-1.50", wantNil: true},
		{name: "garbage", price: "abc", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := n.Normalize([]domain.RawStationRecord{
				{Latitude: "-23.5", Longitude: "-46.6", PriceGasoline: tt.price},
			})
			require.Len(t, result.Valid, 1)
			got := result.Valid[0].PriceGasoline
			if tt.wantNil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, tt.want, *got)
			}
		})
	}
}

func TestNormalizer_EmptyBatch(t *testing.T) {
	n, _ := newNormalizer(t)

	result := n.Normalize(nil)
	assert.Empty(t, result.Valid)
	assert.Zero(t, result.RejectedCount())
}
