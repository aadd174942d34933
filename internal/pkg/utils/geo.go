package utils

import "math"

const earthRadiusKm = 6371.0

// kmPerDegreeLat - примерная длина одного градуса широты в километрах
const kmPerDegreeLat = 111.0

// HaversineDistance вычисляет расстояние между двумя точками в километрах
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// RadiusDegreeDeltas переводит радиус в километрах в дельты по широте и долготе.
// Дельта долготы растянута на cos(lat); у полюсов ограничена 180 градусами.
func RadiusDegreeDeltas(lat, radiusKm float64) (latDelta, lonDelta float64) {
	latDelta = radiusKm / kmPerDegreeLat

	cosLat := math.Cos(lat * math.Pi / 180.0)
	if cosLat < 1e-6 {
		return latDelta, 180.0
	}

	lonDelta = latDelta / cosLat
	if lonDelta > 180.0 {
		lonDelta = 180.0
	}
	return latDelta, lonDelta
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateRadius проверяет валидность радиуса
func ValidateRadius(radiusKm float64) bool {
	return !math.IsNaN(radiusKm) && radiusKm >= 0
}
