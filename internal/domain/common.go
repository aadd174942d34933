package domain

import "math"

type Point struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

type BoundingBox struct {
	MinLat float64 `json:"min_lat" db:"min_lat"`
	MinLon float64 `json:"min_lon" db:"min_lon"`
	MaxLat float64 `json:"max_lat" db:"max_lat"`
	MaxLon float64 `json:"max_lon" db:"max_lon"`
}

// Contains проверяет попадание точки в прямоугольник (границы включительно)
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat &&
		lon >= b.MinLon && lon <= b.MaxLon
}

// CellKey - ключ ячейки равномерной сетки, дискретизированные координаты
type CellKey struct {
	LatIdx int
	LonIdx int
}

// CellKeyFor вычисляет ключ ячейки как floor(coord/cellSize) по обеим осям
func CellKeyFor(lat, lon, cellSize float64) CellKey {
	return CellKey{
		LatIdx: int(math.Floor(lat / cellSize)),
		LonIdx: int(math.Floor(lon / cellSize)),
	}
}
