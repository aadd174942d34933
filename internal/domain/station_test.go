package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStationRecord_HasValidCoordinates(t *testing.T) {
	tests := []struct {
		name        string
		record      StationRecord
		expected    bool
		description string
	}{
		{
			name:        "valid coordinates",
			record:      StationRecord{Latitude: -23.5505, Longitude: -46.6333},
			expected:    true,
			description: "Should accept a normal coordinate pair",
		},
		{
			name:        "zero pair is invalid",
			record:      StationRecord{Latitude: 0, Longitude: 0},
			expected:    false,
			description: "The (0,0) pair marks missing coordinates",
		},
		{
			name:        "zero latitude alone is valid",
			record:      StationRecord{Latitude: 0, Longitude: -46.6333},
			expected:    true,
			description: "Only the exact (0,0) pair is the missing marker",
		},
		{
			name:        "latitude out of range",
			record:      StationRecord{Latitude: 91, Longitude: 10},
			expected:    false,
			description: "Latitude must stay within [-90, 90]",
		},
		{
			name:        "longitude out of range",
			record:      StationRecord{Latitude: 10, Longitude: -181},
			expected:    false,
			description: "Longitude must stay within [-180, 180]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.record.HasValidCoordinates(), tt.description)
		})
	}
}

func TestStationRecord_PriceAccessors(t *testing.T) {
	record := StationRecord{}
	assert.Nil(t, record.Price(FuelGasoline))

	record.SetPrice(FuelGasoline, floatPtr(5.79))
	record.SetPrice(FuelCNG, floatPtr(4.20))

	require.NotNil(t, record.Price(FuelGasoline))
	assert.Equal(t, 5.79, *record.Price(FuelGasoline))
	require.NotNil(t, record.Price(FuelCNG))
	assert.Equal(t, 4.20, *record.Price(FuelCNG))
	assert.Nil(t, record.Price(FuelEthanol))
	assert.Nil(t, record.Price(FuelDiesel))

	// Unknown fuel type reads as unavailable
	assert.Nil(t, record.Price(FuelType("jet-a1")))
}

func TestValidFuelType(t *testing.T) {
	for _, fuel := range FuelTypes() {
		assert.True(t, ValidFuelType(string(fuel)))
	}
	assert.False(t, ValidFuelType("kerosene"))
	assert.False(t, ValidFuelType(""))
}

func TestCellKeyFor(t *testing.T) {
	tests := []struct {
		name        string
		lat, lon    float64
		cellSize    float64
		expected    CellKey
		description string
	}{
		{
			name:        "positive coordinates",
			lat:         12.34,
			lon:         56.78,
			cellSize:    0.1,
			expected:    CellKey{LatIdx: 123, LonIdx: 567},
			description: "floor(12.34/0.1)=123, floor(56.78/0.1)=567",
		},
		{
			name:        "negative coordinates floor toward minus infinity",
			lat:         -23.5505,
			lon:         -46.6333,
			cellSize:    0.1,
			expected:    CellKey{LatIdx: -236, LonIdx: -467},
			description: "floor(-235.505)=-236, not truncation toward zero",
		},
		{
			name:        "origin",
			lat:         0,
			lon:         0,
			cellSize:    0.1,
			expected:    CellKey{LatIdx: 0, LonIdx: 0},
			description: "Origin maps to the zero cell",
		},
		{
			name:        "coarser cell size",
			lat:         -23.5505,
			lon:         -46.6333,
			cellSize:    1.0,
			expected:    CellKey{LatIdx: -24, LonIdx: -47},
			description: "Cell size is configurable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CellKeyFor(tt.lat, tt.lon, tt.cellSize), tt.description)
		})
	}
}

func TestBoundingBox_Contains(t *testing.T) {
	box := BoundingBox{MinLat: -1, MinLon: -2, MaxLat: 1, MaxLon: 2}

	assert.True(t, box.Contains(0, 0))
	assert.True(t, box.Contains(-1, -2), "boundaries are inclusive")
	assert.True(t, box.Contains(1, 2), "boundaries are inclusive")
	assert.False(t, box.Contains(1.0001, 0))
	assert.False(t, box.Contains(0, -2.0001))
}

func TestFlexString_UnmarshalJSON(t *testing.T) {
	var raw RawStationRecord
	payload := `{
		"name": "Posto Central",
		"latitude": "-23,5505",
		"longitude": -46.6333,
		"price_gasoline": "5,79",
		"price_ethanol": 3.99,
		"price_diesel": "N/A"
	}`

	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	assert.Equal(t, "-23,5505", raw.Latitude.String(), "string values pass through untouched")
	assert.Equal(t, "-46.6333", raw.Longitude.String(), "numbers keep their source text")
	assert.Equal(t, "5,79", raw.PriceGasoline.String())
	assert.Equal(t, "3.99", raw.PriceEthanol.String())
	assert.Equal(t, "N/A", raw.PriceDiesel.String())
	assert.Equal(t, "", raw.PriceCNG.String(), "missing field stays empty")
}

func floatPtr(v float64) *float64 {
	return &v
}
