package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	tests := []struct {
		name        string
		lat1, lon1  float64
		lat2, lon2  float64
		expectedKm  float64
		deltaKm     float64
		description string
	}{
		{
			name: "coincident points",
			lat1: -23.5505, lon1: -46.6333,
			lat2: -23.5505, lon2: -46.6333,
			expectedKm:  0,
			deltaKm:     1e-9,
			description: "Distance to itself is exactly zero",
		},
		{
			name: "one degree of longitude at the equator",
			lat1: 0, lon1: 0,
			lat2: 0, lon2: 1,
			expectedKm:  111.19,
			deltaKm:     0.1,
			description: "A degree at the equator is about 111 km",
		},
		{
			name: "sao paulo to rio",
			lat1: -23.5505, lon1: -46.6333,
			lat2: -22.9068, lon2: -43.1729,
			expectedKm:  360.8,
			deltaKm:     1.0,
			description: "Known city pair with a well known distance",
		},
		{
			name: "antipodal points",
			lat1: 0, lon1: 0,
			lat2: 0, lon2: 180,
			expectedKm:  20015.1,
			deltaKm:     0.5,
			description: "Half the circumference of the sphere",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.expectedKm, got, tt.deltaKm, tt.description)
		})
	}
}

func TestHaversineDistance_Symmetry(t *testing.T) {
	pairs := [][4]float64{
		{-23.5505, -46.6333, -22.9068, -43.1729},
		{0, 0, 10, 10},
		{89.9, 0, -89.9, 179.9},
	}

	for _, p := range pairs {
		forward := HaversineDistance(p[0], p[1], p[2], p[3])
		backward := HaversineDistance(p[2], p[3], p[0], p[1])
		assert.Equal(t, forward, backward, "distance must not depend on argument order")
	}
}

func TestRadiusDegreeDeltas(t *testing.T) {
	t.Run("equator", func(t *testing.T) {
		latDelta, lonDelta := RadiusDegreeDeltas(0, 111.0)
		assert.InDelta(t, 1.0, latDelta, 1e-9)
		assert.InDelta(t, 1.0, lonDelta, 1e-9, "cos(0)=1, both deltas match")
	})

	t.Run("sixty degrees stretches longitude", func(t *testing.T) {
		latDelta, lonDelta := RadiusDegreeDeltas(60, 111.0)
		assert.InDelta(t, 1.0, latDelta, 1e-9)
		assert.InDelta(t, 2.0, lonDelta, 1e-6, "cos(60)=0.5 doubles the longitude delta")
	})

	t.Run("pole guard", func(t *testing.T) {
		_, lonDelta := RadiusDegreeDeltas(90, 10.0)
		assert.Equal(t, 180.0, lonDelta, "at the pole the box spans all longitudes")
	})

	t.Run("huge radius clamps longitude", func(t *testing.T) {
		_, lonDelta := RadiusDegreeDeltas(89.0, 1000.0)
		assert.Equal(t, 180.0, lonDelta)
	})
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(-90, -180))
	assert.True(t, ValidateCoordinates(90, 180))
	assert.False(t, ValidateCoordinates(90.0001, 0))
	assert.False(t, ValidateCoordinates(0, -180.0001))
	assert.False(t, ValidateCoordinates(math.NaN(), 0))
	assert.False(t, ValidateCoordinates(0, math.NaN()))
}

func TestValidateRadius(t *testing.T) {
	assert.True(t, ValidateRadius(0))
	assert.True(t, ValidateRadius(50))
	assert.False(t, ValidateRadius(-0.1))
	assert.False(t, ValidateRadius(math.NaN()))
}
