package index_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelstation-microservice/internal/domain"
	"github.com/fuelstation-microservice/internal/index"
)

func testRecords() []domain.StationRecord {
	return []domain.StationRecord{
		{ID: "st_1", Latitude: -23.5505, Longitude: -46.6333}, // Sao Paulo
		{ID: "st_2", Latitude: -23.5510, Longitude: -46.6340}, // Sao Paulo, same cell
		{ID: "st_3", Latitude: -22.9068, Longitude: -43.1729}, // Rio de Janeiro
		{ID: "st_4", Latitude: -15.7942, Longitude: -47.8822}, // Brasilia
		{ID: "st_5", Latitude: -3.7319, Longitude: -38.5267},  // Fortaleza
	}
}

func buildAll(t *testing.T, records []domain.StationRecord) []index.SpatialIndex {
	t.Helper()
	return []index.SpatialIndex{
		index.NewGridIndex(records, 0.1),
		index.NewBBoxIndex(records),
		index.NewCoordinateIndex(records),
	}
}

func TestGridIndex_Build(t *testing.T) {
	grid := index.NewGridIndex(testRecords(), 0.1)

	assert.Equal(t, 5, grid.Len())
	// st_1 and st_2 share a cell, the rest are alone
	assert.Equal(t, 4, grid.CellCount())
	assert.Equal(t, 0.1, grid.CellSize())
}

func TestGridIndex_DefaultCellSize(t *testing.T) {
	grid := index.NewGridIndex(testRecords(), 0)
	assert.Equal(t, index.DefaultCellSize, grid.CellSize())
}

func TestCoordinateIndex_PreservesOrder(t *testing.T) {
	records := testRecords()
	coords := index.NewCoordinateIndex(records)

	require.Equal(t, len(records), coords.Len())
	for i, r := range records {
		lat, lon, id := coords.At(i)
		assert.Equal(t, r.ID, id)
		assert.Equal(t, r.Latitude, lat)
		assert.Equal(t, r.Longitude, lon)
	}
}

func TestSpatialIndex_SearchBox(t *testing.T) {
	records := testRecords()

	tests := []struct {
		name        string
		box         domain.BoundingBox
		expected    []string
		description string
	}{
		{
			name:        "box around Sao Paulo",
			box:         domain.BoundingBox{MinLat: -23.6, MinLon: -46.7, MaxLat: -23.5, MaxLon: -46.6},
			expected:    []string{"st_1", "st_2"},
			description: "Both Sao Paulo stations fall inside",
		},
		{
			name:        "box around Rio",
			box:         domain.BoundingBox{MinLat: -23.0, MinLon: -43.2, MaxLat: -22.8, MaxLon: -43.1},
			expected:    []string{"st_3"},
			description: "Only the Rio station matches",
		},
		{
			name:        "empty region",
			box:         domain.BoundingBox{MinLat: 10, MinLon: 10, MaxLat: 11, MaxLon: 11},
			expected:    nil,
			description: "No stations in the north atlantic",
		},
		{
			name:        "country-wide box",
			box:         domain.BoundingBox{MinLat: -35, MinLon: -75, MaxLat: 5, MaxLon: -30},
			expected:    []string{"st_1", "st_2", "st_3", "st_4", "st_5"},
			description: "Everything matches",
		},
		{
			name:        "point on the boundary is included",
			box:         domain.BoundingBox{MinLat: -23.5505, MinLon: -46.6333, MaxLat: -23.0, MaxLon: -46.0},
			expected:    []string{"st_1"},
			description: "Box boundaries are inclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, idx := range buildAll(t, records) {
				got := idx.SearchBox(tt.box)
				assert.ElementsMatch(t, tt.expected, got,
					"%s: strategy %s: %s", tt.name, idx.Name(), tt.description)
			}
		})
	}
}

func TestSpatialIndex_StrategiesAgree(t *testing.T) {
	// Dense cluster straddling cell boundaries
	var records []domain.StationRecord
	for i := 0; i < 40; i++ {
		records = append(records, domain.StationRecord{
			ID:        fmt.Sprintf("st_%d", i),
			Latitude:  -23.0 - float64(i)*0.017,
			Longitude: -46.0 - float64(i)*0.023,
		})
	}

	indices := buildAll(t, records)
	boxes := []domain.BoundingBox{
		{MinLat: -23.3, MinLon: -46.4, MaxLat: -23.0, MaxLon: -46.0},
		{MinLat: -23.7, MinLon: -46.95, MaxLat: -23.2, MaxLon: -46.3},
		{MinLat: -24, MinLon: -47, MaxLat: -22, MaxLon: -45},
	}

	for _, box := range boxes {
		reference := indices[0].SearchBox(box)
		for _, idx := range indices[1:] {
			assert.ElementsMatch(t, reference, idx.SearchBox(box),
				"strategy %s disagrees with %s", idx.Name(), indices[0].Name())
		}
	}
}

func TestSpatialIndex_EmptyInput(t *testing.T) {
	box := domain.BoundingBox{MinLat: -90, MinLon: -180, MaxLat: 90, MaxLon: 180}

	for _, idx := range buildAll(t, nil) {
		assert.Equal(t, 0, idx.Len(), "strategy %s", idx.Name())
		assert.Empty(t, idx.SearchBox(box), "strategy %s", idx.Name())
	}
}

func TestValidStrategy(t *testing.T) {
	assert.True(t, index.ValidStrategy(index.StrategyGrid))
	assert.True(t, index.ValidStrategy(index.StrategyBBox))
	assert.True(t, index.ValidStrategy(index.StrategyLinear))
	assert.False(t, index.ValidStrategy("quadtree"))
}
